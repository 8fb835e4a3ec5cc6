package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractEntities(t *testing.T) {
	t.Run("owner/repo references", func(t *testing.T) {
		entities := ExtractEntities("any issues on openock/contexture?")
		assert.Equal(t, []string{"openock/contexture"}, entities.Repos)
	})

	t.Run("project-like tokens", func(t *testing.T) {
		entities := ExtractEntities("status of payment-service and backend_api")
		assert.Contains(t, entities.Projects, "payment-service")
		assert.Contains(t, entities.Projects, "backend_api")
	})

	t.Run("stopwords are never projects", func(t *testing.T) {
		entities := ExtractEntities("what meetings are on my schedule tomorrow")
		assert.Empty(t, entities.Projects)
	})

	t.Run("short plain words are skipped", func(t *testing.T) {
		entities := ExtractEntities("check the build soon")
		assert.NotContains(t, entities.Projects, "build")
		assert.NotContains(t, entities.Projects, "check")
	})

	t.Run("person names", func(t *testing.T) {
		entities := ExtractEntities("meeting with Jane Smith about the roadmap")
		assert.Equal(t, []string{"Jane Smith"}, entities.People)
	})

	t.Run("duplicates collapse", func(t *testing.T) {
		entities := ExtractEntities("payment-service or payment-service?")
		assert.Equal(t, []string{"payment-service"}, entities.Projects)
	})

	t.Run("empty text", func(t *testing.T) {
		entities := ExtractEntities("")
		assert.Empty(t, entities.Repos)
		assert.Empty(t, entities.Projects)
		assert.Empty(t, entities.People)
	})
}
