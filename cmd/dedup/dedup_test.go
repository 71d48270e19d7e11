package dedup_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	cmddedup "github.com/jonesrussell/north-cloud/newsdesk/cmd/dedup"
	"github.com/jonesrussell/north-cloud/newsdesk/internal/dedup"
)

func TestRenderStats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	cmddedup.RenderStats(&buf, []string{"ai_times", "hf_blog"}, map[string]dedup.Stat{
		"ai_times": {Total: 30, Duplicate: 4, New: 26},
		"hf_blog":  {Total: 12, Duplicate: 0, New: 12},
	})

	out := buf.String()
	assert.Contains(t, out, "ai_times")
	assert.Contains(t, out, "26")
	assert.Contains(t, out, "42")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("ai_times")), bytes.Index(buf.Bytes(), []byte("hf_blog")))
}
