package server

import "html/template"

const genePlaceholder = "EGFR\nKRAS\nBRAF\nMAPK1\nTP53"

type pageData struct {
	Placeholder      string
	DefaultThreshold float64
}

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Gene Interaction Pathway Generator</title>
<style>
  body { font-family: sans-serif; max-width: 1100px; margin: 2rem auto; padding: 0 1rem; color: #212529; }
  textarea { width: 100%; height: 8rem; font-family: monospace; }
  .controls { display: flex; gap: 2rem; align-items: center; margin: 1rem 0; }
  .notice { padding: .5rem .75rem; margin: .25rem 0; border-radius: 4px; }
  .notice.success { background: #d1e7dd; }
  .notice.info { background: #cff4fc; }
  .notice.warning { background: #fff3cd; }
  .notice.error { background: #f8d7da; }
  iframe { width: 100%; height: 740px; border: 1px solid #dee2e6; }
  table { border-collapse: collapse; margin: 1rem 0; }
  th, td { border: 1px solid #dee2e6; padding: .3rem .8rem; text-align: left; }
  .summary { background: #f1f3f5; padding: 1rem; border-radius: 6px; line-height: 1.5; }
  [hidden] { display: none; }
</style>
</head>
<body>
<h1>Gene Interaction Pathway Generator</h1>
<p>Enter gene symbols separated by commas, spaces or new lines.</p>
<form id="query">
  <textarea id="genes" name="genes" placeholder="{{.Placeholder}}"></textarea>
  <div class="controls">
    <label>Confidence threshold
      <input id="threshold" type="range" min="0" max="1" step="0.05" value="{{.DefaultThreshold}}">
      <output id="threshold-value">{{.DefaultThreshold}}</output>
    </label>
    <label><input id="show-labels" type="checkbox" checked> Show edge confidence</label>
    <button type="submit">Generate Pathway</button>
  </div>
</form>

<div id="notices"></div>
<section id="results" hidden>
  <h2>Interaction Network</h2>
  <iframe id="network" title="Interaction network"></iframe>
  <h2>Interaction Table</h2>
  <table>
    <thead><tr><th>Gene A</th><th>Gene B</th><th>Confidence</th></tr></thead>
    <tbody id="table"></tbody>
  </table>
  <a id="csv" href="#" download="gene_interactions.csv">Download CSV</a>
  <h2>Biological Summary</h2>
  <div id="summary" class="summary"></div>
</section>

<script>
(function () {
  const form = document.getElementById("query");
  const slider = document.getElementById("threshold");
  const sliderValue = document.getElementById("threshold-value");
  const notices = document.getElementById("notices");
  const results = document.getElementById("results");
  let csvURL = null;

  slider.addEventListener("input", () => { sliderValue.textContent = slider.value; });

  function payload() {
    return JSON.stringify({
      genes: document.getElementById("genes").value,
      threshold: parseFloat(slider.value),
      show_labels: document.getElementById("show-labels").checked,
    });
  }

  function showNotices(list) {
    notices.replaceChildren();
    (list || []).forEach((n) => {
      const div = document.createElement("div");
      div.className = "notice " + n.level;
      div.textContent = n.message;
      notices.appendChild(div);
    });
  }

  function showTable(rows) {
    const body = document.getElementById("table");
    body.replaceChildren();
    (rows || []).forEach((r) => {
      const tr = document.createElement("tr");
      [r.gene_a, r.gene_b, r.confidence].forEach((v) => {
        const td = document.createElement("td");
        td.textContent = v;
        tr.appendChild(td);
      });
      body.appendChild(tr);
    });
  }

  async function prepareCSV(body) {
    if (csvURL) { URL.revokeObjectURL(csvURL); }
    const resp = await fetch("/api/pathway/csv", {
      method: "POST", headers: { "Content-Type": "application/json" }, body: body,
    });
    if (!resp.ok) { return; }
    csvURL = URL.createObjectURL(await resp.blob());
    document.getElementById("csv").href = csvURL;
  }

  form.addEventListener("submit", async (event) => {
    event.preventDefault();
    results.hidden = true;
    showNotices([{ level: "info", message: "Fetching interactions..." }]);

    const body = payload();
    let report;
    try {
      const resp = await fetch("/api/pathway", {
        method: "POST", headers: { "Content-Type": "application/json" }, body: body,
      });
      report = await resp.json();
    } catch (err) {
      showNotices([{ level: "error", message: String(err) }]);
      return;
    }
    if (report.error) {
      showNotices([{ level: "error", message: report.error }]);
      return;
    }

    showNotices(report.notices);
    if (report.stage !== "complete") { return; }

    document.getElementById("network").srcdoc = report.network_html || "";
    showTable(report.table);
    // The summary arrives HTML-escaped apart from the highlight spans.
    document.getElementById("summary").innerHTML = report.summary || "";
    results.hidden = false;
    prepareCSV(body);
  });
})();
</script>
</body>
</html>
`))
