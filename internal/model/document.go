package model

// Document is the metadata-store record for one ingested asset. AssetID is
// assigned once at create time and never reassigned.
type Document struct {
	AssetID      string `json:"asset_id" db:"asset_id"`
	DocumentName string `json:"document_name" db:"document_name"`
	FileType     string `json:"file_type" db:"file_type"`
	Ctime        int64  `json:"ctime" db:"ctime"`
	Mtime        int64  `json:"mtime" db:"mtime"`
}
