package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecialistsInCatalogOrder(t *testing.T) {
	c := Default()
	names := c.Specialists()

	assert.NotEmpty(t, names)
	assert.Equal(t, "General Dentist", names[0])
}

func TestProceduresLookup(t *testing.T) {
	c := Default()

	for _, name := range c.Specialists() {
		assert.NotEmpty(t, c.Procedures(name), "specialist %q has no procedures", name)
	}
	assert.Nil(t, c.Procedures("Astrologer"))
}
