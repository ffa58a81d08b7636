package domain

// Multipart field names accepted by the analysis endpoint.
const (
	FieldQuestions = "questions.txt"
	FieldImage     = "image.png"
	FieldCSV       = "data.csv"
	FieldXLSX      = "data.xlsx"
)

// ResultStatusSuccess is the status carried by the fallback wrapper.
const ResultStatusSuccess = "success"

// AllowedImageTypes maps sniffed image MIME types to a short name.
var AllowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/webp": "webp",
	"image/gif":  "gif",
}
