package domain

import (
	"errors"
	"time"
)

// ErrMediaNotFound возвращается, когда запись с указанным именем отсутствует в хранилище
var ErrMediaNotFound = errors.New("media not found")

type Media struct {
	ID        int64     `json:"id" db:"id"`
	Filename  string    `json:"filename" db:"filename"`
	FileData  []byte    `json:"-" db:"filedata"`
	MIMEType  string    `json:"mimetype" db:"mimetype"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type MediaUpload struct {
	OriginalName string
	MIMEType     string
	Data         []byte
}

// UploadResponse представляет ответ на загрузку файла
type UploadResponse struct {
	Success bool   `json:"success"`
	File    string `json:"file"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
