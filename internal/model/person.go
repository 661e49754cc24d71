package model

// Person is the only record type served by the API.
//
// ID stays nil until the first save assigns it.
type Person struct {
	ID   *int64 `db:"id" json:"id,omitempty"`
	Name string `db:"name" json:"name"`
	Age  int    `db:"age" json:"age"`
}

var personSchema = &Schema{
	Table:  "people",
	Entity: "person",
	Columns: []Column{
		{Name: "id", Type: ColumnInteger, PrimaryKey: true},
		{Name: "name", Type: ColumnText},
		{Name: "age", Type: ColumnInteger},
	},
}

// NewPerson returns an unsaved Person.
func NewPerson(name string, age int) *Person {
	return &Person{Name: name, Age: age}
}

func (p *Person) Schema() *Schema {
	return personSchema
}

func (p *Person) PrimaryKey() (int64, bool) {
	if p.ID == nil {
		return 0, false
	}
	return *p.ID, true
}

func (p *Person) SetPrimaryKey(id int64) {
	p.ID = &id
}
