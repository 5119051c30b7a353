package vaccines

import "sort"

// builtin es el calendario infantil que usa la app. Semanas desde el nacimiento.
var builtin = []Definition{
	{ID: "hepb-1", Name: "Hepatitis B (1st dose)", StartWeek: 0, EndWeek: 1, Description: "Birth dose"},
	{ID: "bcg", Name: "BCG", StartWeek: 0, EndWeek: 4},
	{ID: "hepb-2", Name: "Hepatitis B (2nd dose)", StartWeek: 4, EndWeek: 8},
	{ID: "dtap-1", Name: "DTaP (1st dose)", StartWeek: 6, EndWeek: 10},
	{ID: "ipv-1", Name: "Polio IPV (1st dose)", StartWeek: 6, EndWeek: 10},
	{ID: "hib-1", Name: "Hib (1st dose)", StartWeek: 6, EndWeek: 10},
	{ID: "pcv-1", Name: "Pneumococcal PCV (1st dose)", StartWeek: 6, EndWeek: 10},
	{ID: "rota-1", Name: "Rotavirus (1st dose)", StartWeek: 6, EndWeek: 14},
	{ID: "dtap-2", Name: "DTaP (2nd dose)", StartWeek: 10, EndWeek: 14},
	{ID: "ipv-2", Name: "Polio IPV (2nd dose)", StartWeek: 10, EndWeek: 14},
	{ID: "hib-2", Name: "Hib (2nd dose)", StartWeek: 10, EndWeek: 14},
	{ID: "pcv-2", Name: "Pneumococcal PCV (2nd dose)", StartWeek: 10, EndWeek: 14},
	{ID: "rota-2", Name: "Rotavirus (2nd dose)", StartWeek: 10, EndWeek: 24},
	{ID: "dtap-3", Name: "DTaP (3rd dose)", StartWeek: 14, EndWeek: 18},
	{ID: "hib-3", Name: "Hib (3rd dose)", StartWeek: 14, EndWeek: 18},
	{ID: "pcv-3", Name: "Pneumococcal PCV (3rd dose)", StartWeek: 14, EndWeek: 18},
	{ID: "ipv-3", Name: "Polio IPV (3rd dose)", StartWeek: 14, EndWeek: 26},
	{ID: "hepb-3", Name: "Hepatitis B (3rd dose)", StartWeek: 24, EndWeek: 72},
	{ID: "flu-1", Name: "Influenza (1st dose)", StartWeek: 26, EndWeek: 52, Description: "Seasonal"},
	{ID: "mmr-1", Name: "MMR (1st dose)", StartWeek: 52, EndWeek: 65},
	{ID: "varicella-1", Name: "Varicella (1st dose)", StartWeek: 52, EndWeek: 65},
	{ID: "hepa-1", Name: "Hepatitis A (1st dose)", StartWeek: 52, EndWeek: 104},
	{ID: "dtap-4", Name: "DTaP (4th dose)", StartWeek: 65, EndWeek: 78},
}

// Catalog devuelve una copia ordenada del catálogo.
func Catalog() []Definition {
	out := make([]Definition, len(builtin))
	copy(out, builtin)
	SortCatalog(out)
	return out
}

// Lookup busca una definición por ID.
func Lookup(id string) (Definition, bool) {
	for _, d := range builtin {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// SortCatalog ordena por semana de inicio, semana de fin y nombre.
func SortCatalog(defs []Definition) {
	sort.SliceStable(defs, func(i, j int) bool {
		a, b := defs[i], defs[j]
		if a.StartWeek != b.StartWeek {
			return a.StartWeek < b.StartWeek
		}
		if a.EndWeek != b.EndWeek {
			return a.EndWeek < b.EndWeek
		}
		return a.Name < b.Name
	})
}
