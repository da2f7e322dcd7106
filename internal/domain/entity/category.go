package entity

// Category categoría de un artículo del almacén (enumeración cerrada).
type Category string

const (
	CategoryElectronics Category = "elektronika"
	CategoryTools       Category = "narzędzia"
	CategoryMaterials   Category = "materiały"
	CategoryParts       Category = "części"
	CategoryOther       Category = "inne"
)

// CategoryAll valor de filtro que no excluye ninguna categoría.
const CategoryAll = "all"

// Categories devuelve las categorías válidas en orden de presentación.
func Categories() []Category {
	return []Category{CategoryElectronics, CategoryTools, CategoryMaterials, CategoryParts, CategoryOther}
}

// Valid informa si la categoría pertenece a la enumeración.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// Unit unidad de medida de la cantidad de un artículo.
type Unit string

const (
	UnitPiece       Unit = "szt"
	UnitKilogram    Unit = "kg"
	UnitLiter       Unit = "l"
	UnitMeter       Unit = "m"
	UnitSquareMeter Unit = "m²"
	UnitCubicMeter  Unit = "m³"
	UnitPackage     Unit = "op"
	UnitPair        Unit = "par"
)

// Units devuelve las unidades válidas.
func Units() []Unit {
	return []Unit{UnitPiece, UnitKilogram, UnitLiter, UnitMeter, UnitSquareMeter, UnitCubicMeter, UnitPackage, UnitPair}
}

// Valid informa si la unidad pertenece a la enumeración.
func (u Unit) Valid() bool {
	for _, v := range Units() {
		if v == u {
			return true
		}
	}
	return false
}
