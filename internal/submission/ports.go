package submission

import "context"

// AssetUploadResult is the outcome of storing one attachment.
// ID is only meaningful when OK is true.
type AssetUploadResult struct {
	ID  string
	OK  bool
	Err error
}

// AssetUploader stores one attachment and returns its identifier.
// Failures are reported in the result, never as a panic or a separate error.
type AssetUploader interface {
	Upload(ctx context.Context, att Attachment, kind AssetKind) AssetUploadResult
}

// Confirmation is the catalog's answer to a successful record creation.
type Confirmation struct {
	ID       string `json:"id"`
	BookName string `json:"bookName"`
}

// RecordSubmitter creates the catalog entry for an edition.
type RecordSubmitter interface {
	Submit(ctx context.Context, kind EditionKind, rec CatalogRecord) (Confirmation, error)
}

// OrphanReporter receives assets that were stored but never referenced by a record.
type OrphanReporter interface {
	ReportOrphans(ctx context.Context, assetIDs []string, reason string) error
}
