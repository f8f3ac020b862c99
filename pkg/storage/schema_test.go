package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchema_Unpartitioned(t *testing.T) {
	ddl := Schema(false)

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS files")
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS pages")
	assert.Contains(t, ddl, "REFERENCES files(id) ON DELETE CASCADE")
	assert.Contains(t, ddl, "UNIQUE(file_id, page_num)")
	assert.Contains(t, ddl, "USING GIN(text_vector)")
	assert.NotContains(t, ddl, "PARTITION BY HASH")
}

func TestSchema_Partitioned(t *testing.T) {
	ddl := Schema(true)

	assert.Contains(t, ddl, "PARTITION BY HASH(file_id)")
	assert.Equal(t, numPagePartitions, strings.Count(ddl, "PARTITION OF pages"))

	for i := 0; i < numPagePartitions; i++ {
		assert.Contains(t, ddl, "pages_p"+string(rune('0'+i)))
	}
}
