package store

// Entry is one row of the key/value table backing the document store. The
// whole store document lives in a single row under a fixed key, mirroring the
// one-blob-per-key layout the data model was designed around.
type Entry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

// TableName overrides the gorm table name
func (Entry) TableName() string {
	return "kv_entries"
}
