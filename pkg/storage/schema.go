package storage

import "fmt"

const unpartitionedPagesDDL = `
CREATE TABLE IF NOT EXISTS pages(
  id BIGSERIAL,
  file_id BIGINT NOT NULL REFERENCES files(id) ON DELETE CASCADE,
  page_num INTEGER NOT NULL,
  text TEXT NOT NULL,
  text_vector tsvector GENERATED ALWAYS AS
      (to_tsvector('english', substring(text,1,100000))) STORED,
  UNIQUE(file_id, page_num)
);
`

const partitionedPagesDDL = `
CREATE TABLE IF NOT EXISTS pages(
  id BIGSERIAL,
  file_id BIGINT NOT NULL,
  page_num INTEGER NOT NULL,
  text TEXT NOT NULL,
  text_vector tsvector GENERATED ALWAYS AS
      (to_tsvector('english', substring(text,1,100000))) STORED,
  UNIQUE(file_id, page_num)
) PARTITION BY HASH(file_id);
`

const filesDDL = `
CREATE TABLE IF NOT EXISTS files(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  num_pages INT NOT NULL,
  path TEXT NOT NULL,
  UNIQUE(name, path)
);
`

const indexDDL = `
CREATE INDEX IF NOT EXISTS idx_pages_text_vector ON pages USING GIN(text_vector);
CREATE INDEX IF NOT EXISTS idx_pages_file_id ON pages(file_id);
CREATE INDEX IF NOT EXISTS idx_pages_file_id_page_num ON pages(file_id, page_num);
`

const numPagePartitions = 10

// Schema returns the full bootstrap DDL. When partitioned is true, pages
// is declared PARTITION BY HASH(file_id) with 10 partitions attached.
// The choice comes from configuration when storage is opened; because
// the DDL uses CREATE TABLE IF NOT EXISTS, it only takes effect when the
// pages table is first created.
func Schema(partitioned bool) string {
	if !partitioned {
		return filesDDL + unpartitionedPagesDDL + indexDDL
	}

	ddl := filesDDL + partitionedPagesDDL

	for i := 0; i < numPagePartitions; i++ {
		ddl += fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS pages_p%d PARTITION OF pages FOR VALUES WITH (MODULUS %d, REMAINDER %d);\n",
			i, numPagePartitions, i,
		)
	}

	return ddl + indexDDL
}
