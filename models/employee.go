package models

import "github.com/uptrace/bun"

// Employee is one row of the internally maintained employee roster,
// loaded from technova_employees.csv via the upload endpoint.
type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	EmployeeID       string   `bun:"employee_id,pk" json:"employeeID"`
	FirstName        *string  `bun:"first_name" json:"firstName,omitempty"`
	LastName         *string  `bun:"last_name" json:"lastName,omitempty"`
	Gender           *string  `bun:"gender" json:"gender,omitempty"`
	HireDate         *string  `bun:"hire_date,type:date" json:"hireDate,omitempty"`
	JobFamily        string   `bun:"job_family,notnull" json:"jobFamily"`
	RoleTitle        string   `bun:"role_title,notnull" json:"roleTitle"`
	JobLevel         string   `bun:"job_level,notnull" json:"jobLevel"`
	Department       *string  `bun:"department" json:"department,omitempty"`
	OfficeLocation   string   `bun:"office_location,notnull" json:"officeLocation"`
	MSAName          *string  `bun:"msa_name" json:"msaName,omitempty"`
	MSACode          *string  `bun:"msa_code" json:"msaCode,omitempty"`
	AnnualBaseSalary float64  `bun:"annual_base_salary,notnull" json:"annualBaseSalary"`
	SalaryCurrency   *string  `bun:"salary_currency" json:"salaryCurrency,omitempty"`
	DataAsOfDate     *string  `bun:"data_as_of_date,type:date" json:"dataAsOfDate,omitempty"`
}
