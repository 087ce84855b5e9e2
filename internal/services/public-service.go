package services

import (
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"github.com/abdelwahab/campuscard-api/internal/dto"
	"github.com/abdelwahab/campuscard-api/internal/repository"
)

// PublicService serves the unauthenticated academic reference data used
// by the signup form.
type PublicService interface {
	ListFaculties() ([]dto.FacultyResponse, error)
	ListDepartments(facultyID *uint) ([]dto.DepartmentResponse, error)
}

type publicService struct {
	academicRepo repository.AcademicRepository
}

func NewPublicService(academicRepo repository.AcademicRepository) PublicService {
	return &publicService{academicRepo: academicRepo}
}

func (p *publicService) ListFaculties() ([]dto.FacultyResponse, error) {
	faculties, err := p.academicRepo.ListFaculties()
	if err != nil {
		return nil, err
	}
	out := make([]dto.FacultyResponse, 0, len(faculties))
	for _, f := range faculties {
		out = append(out, dto.FacultyResponse{
			ID:           f.ID,
			Name:         f.Name,
			Description:  f.Description,
			YearsNumbers: f.YearsNumbers,
		})
	}
	return out, nil
}

func (p *publicService) ListDepartments(facultyID *uint) ([]dto.DepartmentResponse, error) {
	var (
		list []domain.Department
		err  error
	)
	if facultyID != nil {
		list, err = p.academicRepo.ListDepartmentsByFaculty(*facultyID)
	} else {
		list, err = p.academicRepo.ListDepartments()
	}
	if err != nil {
		return nil, err
	}

	out := make([]dto.DepartmentResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.DepartmentResponse{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			FacultyID:   d.FacultyID,
		})
	}
	return out, nil
}
