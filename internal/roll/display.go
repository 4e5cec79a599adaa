package roll

import "github.com/meur/logroll/internal/models"

// Render maps an item to its display payload. Pure; missing fields default
// to blanks rather than failing.
func Render(item models.Item) models.DisplayPayload {
	primary := ""
	if len(item.Sources) > 0 {
		primary = item.Sources[0]
	}
	return models.DisplayPayload{
		Name:     item.Name,
		Category: item.Category,
		Source:   primary,
		Sources:  item.Sources,
		IconURL:  item.IconURL,
		WikiURL:  item.WikiURL,
	}
}
