package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"person-web-service/internal/usecase/person"
)

func TestLoad(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{IndexPage, ForbiddenPage, NotFoundPage, ErrorPage} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestIndex_EscapesUserInput(t *testing.T) {
	tmpl := MustLoad()

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, IndexPage, Index{
		Form:   person.CreatePersonRequest{FirstName: `"><script>alert(1)</script>`},
		Errors: map[string]string{"fname": "Only letters and spaces allowed."},
		People: []person.Person{{ID: 1, FirstName: "John", LastName: "Doe", Email: "a&lt;b@example.com"}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "Only letters and spaces allowed.")
	assert.Contains(t, out, "<td>John</td>")
}

func TestIndex_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MustLoad().ExecuteTemplate(&buf, IndexPage, Index{}))
	assert.Contains(t, buf.String(), `id="empty"`)
}
