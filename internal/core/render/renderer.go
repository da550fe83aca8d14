package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/agenthands/genepath/internal/config"
	"github.com/agenthands/genepath/internal/core/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Replaced in tests to simulate read failures.
var readFile = os.ReadFile

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Gene Interaction Network</title>
<script src="{{.ScriptURL}}"></script>
<style>
  body { margin: 0; }
  #network { width: 100%; height: {{.Height}}; background-color: {{.Background}}; border: 1px solid lightgray; }
</style>
</head>
<body>
<div id="network"></div>
<script>
  var nodes = new vis.DataSet({{.Nodes}});
  var edges = new vis.DataSet({{.Edges}});
  var options = {{.Options}};
  var network = new vis.Network(document.getElementById("network"), {nodes: nodes, edges: edges}, options);
</script>
</body>
</html>
`

var document = template.Must(template.New("network").Parse(documentTemplate))

type Renderer struct {
	cfg    config.RenderConfig
	tmpDir string
	logger *zap.Logger
}

// NewRenderer creates a renderer. tmpDir holds the short-lived document
// files; empty means os.TempDir().
func NewRenderer(cfg config.RenderConfig, tmpDir string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{cfg: cfg, tmpDir: tmpDir, logger: logger.Named("render")}
}

func (r *Renderer) Build(genes []string, interactions []model.Interaction, modules []model.Module, opts Options) Network {
	return BuildNetwork(r.cfg, genes, interactions, modules, opts)
}

// HTML renders network as a self-contained document.
func (r *Renderer) HTML(network Network, opts Options) ([]byte, error) {
	nodes, err := json.Marshal(network.Nodes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode nodes: %w", err)
	}
	edges, err := json.Marshal(network.Edges)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edges: %w", err)
	}
	options, err := json.Marshal(layoutOptions(r.cfg.StabilizationRounds, opts.Seed))
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}

	var buf bytes.Buffer
	err = document.Execute(&buf, map[string]interface{}{
		"ScriptURL":  r.cfg.VisNetworkScriptURL,
		"Height":     template.CSS(r.cfg.Height),
		"Background": template.CSS(r.cfg.Background),
		"Nodes":      template.JS(nodes),
		"Edges":      template.JS(edges),
		"Options":    template.JS(options),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render network document: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderDocument builds the network, saves the document to a temporary file
// and reads it back for display. The file is removed before returning, also
// when reading it fails.
func (r *Renderer) RenderDocument(genes []string, interactions []model.Interaction, modules []model.Module, opts Options) ([]byte, error) {
	doc, err := r.HTML(r.Build(genes, interactions, modules, opts), opts)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(r.tmpDir, "genepath-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	name := tmp.Name()
	defer func() {
		if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
			r.logger.Warn("Failed to remove temp file", zap.String("path", name), zap.Error(err))
		}
	}()

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write network document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close network document: %w", err)
	}

	out, err := readFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read network document: %w", err)
	}

	r.logger.Debug("Rendered network",
		zap.Int("nodes", len(genes)),
		zap.Int("edges", len(interactions)),
		zap.Int("bytes", len(out)),
	)
	return out, nil
}
