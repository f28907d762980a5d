package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/listbot/internal/presentation/graph"
	"github.com/aretw0/listbot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(nil)

	for _, want := range []string{
		"graph TD\n",
		`menu(("menu"))`,
		`sort["sort"]`,
		`menu -- "mode_sort | /ordenar | /sort" --> sort`,
		`menu -- "mode_filter | /filter | /remover" --> filter`,
		`menu -- "mode_expand | /expand" --> expand`,
		`expand -. "main_menu" .-> menu`,
		`compare_pending[/"list 1 received"/]`,
		`compare_pending -- "/cancel" --> compare`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	tests := []struct {
		name    string
		overlay graph.Overlay
		want    string
	}{
		{"no mode", graph.Overlay{}, "class menu current;"},
		{"sort", graph.Overlay{Mode: domain.ModeSort}, "class sort current;"},
		{"compare idle", graph.Overlay{Mode: domain.ModeCompare}, "class compare current;"},
		{"compare pending", graph.Overlay{Mode: domain.ModeCompare, Pending: 1}, "class compare_pending current;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(&tt.overlay)
			assert.True(t, strings.HasSuffix(strings.TrimSpace(out), tt.want), out)
		})
	}
}
