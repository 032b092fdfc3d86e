package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/jsonschema"

	"github.com/wplibs/nodata/pkg/currency"
)

const (
	name         = "nodata"
	instructions = `MCP Server 'nodata' browses the currency dataset of a WordPress site through its REST API.

When to use these tools:
- Looking up the current price or update date of a currency
- Finding currencies that have not been updated for a long time
- Checking when the dataset was last refreshed

Workflow:
1. Use 'list_currencies' to page through currencies. Filter by code with 'code' and sort with 'sort_column' and 'sort_order'.
2. Read 'total_pages' in the output and request further pages only when needed.
3. Use 'get_analytics' to get the time of the last dataset update.
`

	// maxPerPage bounds the rows a single tool call may request.
	maxPerPage = 100
)

func newListCurrenciesSchema() *jsonschema.Schema {
	columns := make([]any, 0, len(currency.SortableColumns))
	for _, c := range currency.SortableColumns {
		columns = append(columns, string(c))
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"page": {
				Type:        "integer",
				Description: "The 1-based page number. Defaults to 1.",
			},
			"per_page": {
				Type:        "integer",
				Description: "Rows per page, at most 100. Defaults to 20.",
			},
			"code": {
				Type:        "string",
				Description: "Only return currencies whose code contains this text.",
			},
			"sort_column": {
				Type:        "string",
				Description: "The column to sort by. Omit for the backend order.",
				Enum:        columns,
			},
			"sort_order": {
				Type:        "string",
				Description: "The sort direction. Requires sort_column.",
				Enum:        []any{string(currency.OrderAsc), string(currency.OrderDesc)},
			},
		},
	}
}

func newGetAnalyticsSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
}
