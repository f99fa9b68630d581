package model

// VectorEntry is what the vector store keeps per asset: the embedding plus a
// snapshot of the document metadata taken at write time. The snapshot may lag
// the metadata store after a partial update.
type VectorEntry struct {
	AssetID      string    `json:"asset_id"`
	Embedding    []float32 `json:"-"`
	DocumentName string    `json:"document_name"`
	FileType     string    `json:"file_type"`
	Mtime        int64     `json:"mtime"`
}

// VectorMatch is one similarity hit, best first.
type VectorMatch struct {
	Entry VectorEntry `json:"entry"`
	Score float32     `json:"score"`
}

// DocumentView joins the metadata row with the best-matching vector entry.
type DocumentView struct {
	Document *Document    `json:"document"`
	Vector   *VectorEntry `json:"metadata"`
}
