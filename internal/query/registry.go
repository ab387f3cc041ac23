package query

// Kind determina como o valor cru de um campo é coagido e comparado.
type Kind string

const (
	KindText   Kind = "text"
	KindEnum   Kind = "enum"
	KindNumber Kind = "number"
	KindBool   Kind = "boolean"
)

// FieldSpec liga um nome externo de campo a uma coluna confiável.
// Column sai sempre das tabelas estáticas abaixo, nunca da requisição:
// é isso que impede injeção via nome de coluna.
type FieldSpec struct {
	Name       string
	Column     string
	Kind       Kind
	Filterable bool
	Updatable  bool
}

// Registry é a allow-list consultada para cada chave de filtro e de
// patch. Nome fora do registry é inerte por construção.
type Registry map[string]FieldSpec

func NewRegistry(specs ...FieldSpec) Registry {
	r := make(Registry, len(specs))
	for _, spec := range specs {
		r[spec.Name] = spec
	}
	return r
}

func (r Registry) Lookup(name string) (FieldSpec, bool) {
	spec, ok := r[name]
	return spec, ok
}

// LeadFields descreve a superfície da tabela leads exposta pela API.
var LeadFields = NewRegistry(
	FieldSpec{Name: "first_name", Column: "first_name", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "last_name", Column: "last_name", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "email", Column: "email", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "phone", Column: "phone", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "company", Column: "company", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "city", Column: "city", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "state", Column: "state", Kind: KindText, Filterable: true, Updatable: true},
	FieldSpec{Name: "source", Column: "source", Kind: KindEnum, Filterable: true, Updatable: true},
	FieldSpec{Name: "status", Column: "status", Kind: KindEnum, Filterable: true, Updatable: true},
	FieldSpec{Name: "score", Column: "score", Kind: KindNumber, Filterable: true, Updatable: true},
	FieldSpec{Name: "lead_value", Column: "lead_value", Kind: KindNumber, Filterable: true, Updatable: true},
	FieldSpec{Name: "is_qualified", Column: "is_qualified", Kind: KindBool, Filterable: true, Updatable: true},
)
