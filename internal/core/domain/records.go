package domain

// StudentRecord is a persisted student credential row.
type StudentRecord struct {
	StudentID    string
	Year         int
	PasswordHash string
	Name         string
}

// TeacherRecord is a persisted teacher credential row.
type TeacherRecord struct {
	TeacherID      string
	PasswordHash   string
	Name           string
	Department     string
	Email          string
	Phone          string
	JoiningYear    int
	MentorID       *string
	Designation    string
	Qualification  *string
	Specialization *string
}

// TeacherProfile is what a successful teacher login surfaces to the caller.
// It mirrors TeacherRecord without the password hash.
type TeacherProfile struct {
	TeacherID      string  `json:"teacher_id"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	JoiningYear    int     `json:"joining_year"`
	MentorID       *string `json:"mentor_id"`
	Designation    string  `json:"designation"`
	Qualification  *string `json:"qualification,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
}

// Profile strips the credential material from the record.
func (r TeacherRecord) Profile() TeacherProfile {
	return TeacherProfile{
		TeacherID:      r.TeacherID,
		Name:           r.Name,
		Department:     r.Department,
		Email:          r.Email,
		Phone:          r.Phone,
		JoiningYear:    r.JoiningYear,
		MentorID:       r.MentorID,
		Designation:    r.Designation,
		Qualification:  r.Qualification,
		Specialization: r.Specialization,
	}
}
