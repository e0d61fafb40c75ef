package idcard

// Submission carries the card-holder fields of one generation request.
// Attachments travel separately as multipart file headers; category decides
// whether the portrait gets padded before rendering.
type Submission struct {
	FirstName              string
	LastName               string
	IDNumber               string
	Position               string
	Category               string
	EmergencyContactName   string
	EmergencyContactNumber string
	SignatoryName          string
	SignatoryPosition      string
	CompanyAddress         string
	BarcodeValue           string
}

// FullName returns the card-holder display name as printed on the card front.
func (s Submission) FullName() string {
	return s.FirstName + " " + s.LastName
}
