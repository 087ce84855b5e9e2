package dto

type UpdateProfileRequest struct {
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	NationalID   *string `json:"nationalId,omitempty"`
	FacultyID    *uint   `json:"facultyId,omitempty"`
	DepartmentID *uint   `json:"departmentId,omitempty"`
	Year         *int    `json:"year,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Linkedin     *string `json:"linkedin,omitempty"`
	Github       *string `json:"github,omitempty"`
	Interests    *string `json:"interests,omitempty"`
	Visibility   *string `json:"visibility,omitempty"`
}

type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility"`
}

type ProfileResponse struct {
	UserID       uint    `json:"userId"`
	Email        string  `json:"email"`
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Year         int     `json:"year"`
	Faculty      string  `json:"faculty"`
	Department   string  `json:"department"`
	ProfilePhoto *string `json:"profilePhoto,omitempty"`
	Bio          string  `json:"bio"`
	Phone        string  `json:"phone"`
	Linkedin     string  `json:"linkedin"`
	Github       string  `json:"github"`
	Interests    string  `json:"interests"`
	Visibility   string  `json:"visibility"`
	Status       string  `json:"status"`
}

type ProfilePhotoResponse struct {
	PhotoURL string `json:"photoUrl"`
	Message  string `json:"message"`
}

type NationalIDScanResponse struct {
	ScanURL string `json:"scanUrl"`
	Message string `json:"message"`
}
