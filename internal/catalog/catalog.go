package catalog

// Catalog is the static reference data mapping specialist categories to the
// procedures they offer. It is injected into the intake flow so a trimmed or
// alternative catalog can be swapped in without touching transition logic.
type Catalog struct {
	specialists []Specialist
}

type Specialist struct {
	Name       string
	Procedures []string
}

// Default returns the full clinic catalog.
func Default() *Catalog {
	return &Catalog{specialists: []Specialist{
		{
			Name:       "General Dentist",
			Procedures: []string{"Dental Checkup", "Teeth Cleaning", "Cavity Filling", "Tooth Extraction"},
		},
		{
			Name:       "Orthodontist",
			Procedures: []string{"Braces Consultation", "Clear Aligners", "Retainer Fitting"},
		},
		{
			Name:       "Endodontist",
			Procedures: []string{"Root Canal Treatment", "Root Canal Retreatment"},
		},
		{
			Name:       "Periodontist",
			Procedures: []string{"Deep Scaling", "Gum Surgery", "Dental Implant"},
		},
		{
			Name:       "Pediatric Dentist",
			Procedures: []string{"Child Checkup", "Fluoride Treatment", "Dental Sealants"},
		},
	}}
}

// Specialists returns the category names in catalog order.
func (c *Catalog) Specialists() []string {
	names := make([]string, len(c.specialists))
	for i, s := range c.specialists {
		names[i] = s.Name
	}
	return names
}

// Procedures returns the procedure list for a category, or nil if the
// category is not in the catalog.
func (c *Catalog) Procedures(specialist string) []string {
	for _, s := range c.specialists {
		if s.Name == specialist {
			return s.Procedures
		}
	}
	return nil
}
