package core

import (
	"context"
	"sync"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/genepath/internal/core/model"
)

type executedQuery struct {
	Query  string
	Params map[string]interface{}
}

type MockDriver struct {
	mu       sync.Mutex
	Executed []executedQuery
	Err      error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Executed = append(m.Executed, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) EnsureSchema(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type MockFetcher struct {
	Fixture []model.Interaction
	Err     error

	mu        sync.Mutex
	Calls     int
	LastGenes []string
}

func (m *MockFetcher) Interactions(ctx context.Context, genes []string, threshold float64) ([]model.Interaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.LastGenes = append([]string(nil), genes...)
	if m.Err != nil {
		return nil, m.Err
	}
	var out []model.Interaction
	for _, in := range m.Fixture {
		if in.Score >= threshold {
			out = append(out, in)
		}
	}
	return out, nil
}
