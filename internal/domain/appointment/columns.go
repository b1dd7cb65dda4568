package appointment

type Column string

const (
	ColumnCustomer Column = "customer"
	ColumnCompany  Column = "company"
)

type ColumnSet []Column

func (s ColumnSet) Has(c Column) bool {
	for _, col := range s {
		if col == c {
			return true
		}
	}
	return false
}

var visibleColumns = map[Role]ColumnSet{
	RoleAdmin: {ColumnCustomer, ColumnCompany},
	RoleStaff: {ColumnCustomer, ColumnCompany},
	RoleOwner: {ColumnCustomer},
	RoleUser:  {ColumnCompany},
}

// VisibleColumns depends on role alone; unknown roles see nothing.
func VisibleColumns(role Role) ColumnSet {
	cols := visibleColumns[role]
	out := make(ColumnSet, len(cols))
	copy(out, cols)
	return out
}
