package domain

// Category names an advisory check
type Category string

const (
	CategoryInlineStyle          Category = "inline-style"
	CategoryRenderBlockingScript Category = "render-blocking-script"
	CategoryOversizedStylesheet  Category = "oversized-stylesheet"
)

// AllCategories lists the advisory checks in reporting order
var AllCategories = []Category{
	CategoryInlineStyle,
	CategoryRenderBlockingScript,
	CategoryOversizedStylesheet,
}

// Finding is a non-blocking suggestion about a file
type Finding struct {
	Path     string   `json:"path"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}
