package dto

import "github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/service"

// AdminListResponseDTO is one back office table
type AdminListResponseDTO struct {
	View    service.View  `json:"view"`
	Columns []string      `json:"columns"`
	Items   []service.Row `json:"items"`
	Total   int           `json:"total"`
}

// AdminMutationResponseDTO is returned after a back office write
type AdminMutationResponseDTO struct {
	Message string       `json:"message"`
	View    service.View `json:"view"`
	Item    any          `json:"item"`
}

type UploadRequestDTO struct {
	Folder      string `json:"folder" validate:"required,oneof=courses blogs"`
	ContentType string `json:"contentType" validate:"required"`
}
