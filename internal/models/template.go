package models

// ChequeTemplate is a cheque_templates row; field positions and MICR settings
// are stored as JSONB.
type ChequeTemplate struct {
	TemplateID          string  `db:"template_id"`
	BankName            string  `db:"bank_name"`
	TemplateName        string  `db:"template_name"`
	BackgroundImagePath string  `db:"background_image_path"`
	ImageWidthPx        int     `db:"image_width_px"`
	ImageHeightPx       int     `db:"image_height_px"`
	Fields              []byte  `db:"fields"`
	DateDigitPositions  string  `db:"date_digit_positions"`
	FontFamily          string  `db:"font_family"`
	FontSize            float64 `db:"font_size"`
	FontColor           string  `db:"font_color"`
	MICR                []byte  `db:"micr"`
	AuditFields
}
