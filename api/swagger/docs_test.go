package swagger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var routerLine = regexp.MustCompile(`@Router\s+(\S+)\s+\[(\w+)\]`)

func TestDocCoversAnnotatedRoutes(t *testing.T) {
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	files, err := filepath.Glob("../../internal/handler/*_handler.go")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	annotated := 0
	for _, name := range files {
		f, err := os.Open(name)
		require.NoError(t, err)
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			m := routerLine.FindStringSubmatch(scanner.Text())
			if m == nil {
				continue
			}
			annotated++
			path, method := m[1], strings.ToLower(m[2])
			assert.Contains(t, doc.Paths[path], method, "%s %s from %s", method, path, filepath.Base(name))
		}
		f.Close()
	}

	documented := 0
	for _, ops := range doc.Paths {
		documented += len(ops)
	}
	assert.Equal(t, annotated, documented)
}

func TestDocDefinesBodySchemas(t *testing.T) {
	var doc struct {
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal([]byte(SwaggerInfo.ReadDoc()), &doc))

	for _, name := range []string{"response.Response", "service.CreateSaleRequest", "service.SaleItemRequest", "service.ProductRequest"} {
		assert.Contains(t, doc.Definitions, name)
	}
}
