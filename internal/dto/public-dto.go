package dto

type FacultyResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	YearsNumbers int    `json:"yearsNumbers"`
}

type DepartmentResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	FacultyID   uint   `json:"facultyId"`
}
