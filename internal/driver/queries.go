package driver

const (
	SaveQueryRunQuery = `
		MERGE (r:QueryRun {uuid: $uuid})
		SET r.genes = $genes,
			r.threshold = $threshold,
			r.created_at = $created_at
		RETURN r.uuid AS uuid
	`

	SaveGenesQuery = `
		MATCH (r:QueryRun {uuid: $run_uuid})
		UNWIND $genes AS symbol
		MERGE (g:Gene {symbol: symbol})
		MERGE (r)-[:QUERIED]->(g)
		RETURN count(g) AS genes
	`

	SaveInteractionsQuery = `
		UNWIND $interactions AS i
		MATCH (a:Gene {symbol: i.gene_a})
		MATCH (b:Gene {symbol: i.gene_b})
		MERGE (a)-[e:INTERACTS_WITH]->(b)
		SET e.score = i.score,
			e.source = $source,
			e.updated_at = $created_at
		RETURN count(e) AS interactions
	`
)
