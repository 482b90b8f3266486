package dto

type ReportResponseDTO struct {
	Title   string     `json:"title" example:"Members Report"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

type ExportRequestDTO struct {
	FileName string `json:"file_name,omitempty" example:"members-2024-05.csv"`
}

type ExportResponseDTO struct {
	Path     string `json:"path" example:"/var/exports/members-5f1c.csv"`
	Checksum string `json:"checksum" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
}
