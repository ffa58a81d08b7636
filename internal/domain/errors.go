package domain

import "errors"

var (
	ErrMissingQuestions   = errors.New("questions.txt is required")
	ErrInvalidUpload      = errors.New("uploaded part could not be read")
	ErrUploadTooLarge     = errors.New("upload exceeds maximum allowed size")
	ErrUnsupportedImage   = errors.New("unsupported image type")
	ErrInvalidSpreadsheet = errors.New("spreadsheet could not be converted")
	ErrAPIKeyMissing      = errors.New("GEMINI_API_KEY environment variable not set")
	ErrModelFailure       = errors.New("error calling Gemini API")
	ErrEmptyModelResponse = errors.New("no response from Gemini API")
)
