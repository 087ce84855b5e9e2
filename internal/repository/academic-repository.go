package repository

import (
	"github.com/abdelwahab/campuscard-api/internal/domain"
	"gorm.io/gorm"
)

type AcademicRepository interface {
	ListFaculties() ([]domain.Faculty, error)
	FindFacultyByID(facultyID uint) (*domain.Faculty, error)
	ListDepartments() ([]domain.Department, error)
	ListDepartmentsByFaculty(facultyID uint) ([]domain.Department, error)
	FindDepartmentByID(departmentID uint) (*domain.Department, error)

	// Seeding helpers.
	CountFaculties() (int64, error)
	CreateFaculty(faculty *domain.Faculty) error
	CreateDepartment(department *domain.Department) error
}

type academicRepository struct {
	db *gorm.DB
}

func NewAcademicRepository(db *gorm.DB) AcademicRepository {
	return &academicRepository{db: db}
}

func (r *academicRepository) ListFaculties() ([]domain.Faculty, error) {
	var faculties []domain.Faculty
	if err := r.db.Order("id ASC").Find(&faculties).Error; err != nil {
		return nil, err
	}
	return faculties, nil
}

func (r *academicRepository) FindFacultyByID(facultyID uint) (*domain.Faculty, error) {
	faculty := &domain.Faculty{}
	if err := r.db.First(faculty, facultyID).Error; err != nil {
		return nil, err
	}
	return faculty, nil
}

func (r *academicRepository) ListDepartments() ([]domain.Department, error) {
	var departments []domain.Department
	if err := r.db.Order("id ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *academicRepository) ListDepartmentsByFaculty(facultyID uint) ([]domain.Department, error) {
	var departments []domain.Department
	if err := r.db.Where("faculty_id = ?", facultyID).Order("id ASC").Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

func (r *academicRepository) FindDepartmentByID(departmentID uint) (*domain.Department, error) {
	department := &domain.Department{}
	if err := r.db.First(department, departmentID).Error; err != nil {
		return nil, err
	}
	return department, nil
}

func (r *academicRepository) CountFaculties() (int64, error) {
	var n int64
	err := r.db.Model(&domain.Faculty{}).Count(&n).Error
	return n, err
}

func (r *academicRepository) CreateFaculty(faculty *domain.Faculty) error {
	return r.db.Create(faculty).Error
}

func (r *academicRepository) CreateDepartment(department *domain.Department) error {
	return r.db.Create(department).Error
}
