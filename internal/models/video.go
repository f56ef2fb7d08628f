package models

// Video is the metadata record persisted for every successful video
// upload. PublicID binds the row to the asset stored in the media
// service; a row exists only for assets whose upload was confirmed.
//
// OriginalSize is the caller-declared size and is stored verbatim, as
// a string, without validation against the payload. CompressedSize is
// the string form of the byte size the service reported for the stored
// (transformed) asset.
type Video struct {
	BaseModel
	Title          string  `gorm:"not null" json:"title"`
	Description    string  `json:"description"`
	PublicID       string  `gorm:"column:public_id;not null;uniqueIndex" json:"publicId"`
	OriginalSize   string  `gorm:"column:original_size" json:"originalSize"`
	CompressedSize string  `gorm:"column:compressed_size" json:"compressedSize"`
	Duration       float64 `gorm:"default:0" json:"duration"`
}
