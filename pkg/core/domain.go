// Package core holds the registry domain: content entities, the
// validation rules that guard them, and the pipeline service.
package core

import "fmt"

// Metadata represents the frontmatter key-value pairs of a content file.
type Metadata map[string]any

// Category classifies a content entry.
type Category string

const (
	CategoryPattern    Category = "pattern"
	CategoryADR        Category = "adr"
	CategoryDoc        Category = "doc"
	CategoryBehavioral Category = "behavioral"
	CategoryError      Category = "error"
)

// Categories is the closed set of valid category values.
var Categories = []Category{
	CategoryPattern,
	CategoryADR,
	CategoryDoc,
	CategoryBehavioral,
	CategoryError,
}

// ValidCategory reports whether s is a member of the category set.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Language tags a content entry with its target language.
// "all" is the wildcard tag.
type Language string

// LanguageAll matches every target language.
const LanguageAll Language = "all"

// Languages is the closed set of valid language tags.
var Languages = []Language{
	LanguageAll,
	"python", "javascript", "typescript", "java", "go", "rust", "csharp",
}

// ValidLanguage reports whether s is a member of the language set.
func ValidLanguage(s string) bool {
	for _, l := range Languages {
		if string(l) == s {
			return true
		}
	}
	return false
}

// Severity grades an error record.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Severities is the closed set of valid severity values.
var Severities = []Severity{SeverityCritical, SeverityWarning, SeverityInfo}

// ValidSeverity reports whether s is a member of the severity set.
func ValidSeverity(s string) bool {
	for _, v := range Severities {
		if string(v) == s {
			return true
		}
	}
	return false
}

// Document is one Markdown content file: frontmatter plus prose body.
type Document struct {
	// Path is relative to the corpus root, slash-separated.
	Path string
	// Category is derived from the top-level content directory.
	Category Category
	// Meta is the raw parsed frontmatter.
	Meta Metadata
	// Body is the prose following the frontmatter block.
	Body string
}

// ID returns the frontmatter identifier, or "" when absent.
func (d Document) ID() string {
	return metaString(d.Meta, "id")
}

// MetaString returns a frontmatter field rendered as a string.
func (d Document) MetaString(key string) string {
	return metaString(d.Meta, key)
}

func metaString(m Metadata, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// ErrorRecord is one entry of a YAML error dictionary.
type ErrorRecord struct {
	ID            string   `yaml:"id"`
	ErrorType     string   `yaml:"error_type"`
	Severity      string   `yaml:"severity"`
	Pattern       string   `yaml:"pattern"`
	Cause         string   `yaml:"cause"`
	FixTemplate   string   `yaml:"fix_template"`
	Tags          []string `yaml:"tags"`
	RelatedErrors []string `yaml:"related_errors,omitempty"`

	// Raw keeps the original mapping so required-field checks can
	// distinguish an absent key from an empty value.
	Raw Metadata `yaml:"-"`
}

// ErrorFile is one YAML error dictionary.
type ErrorFile struct {
	// Path is relative to the corpus root, slash-separated.
	Path string
	// Language is the first path segment under the errors directory.
	Language string
	Records  []ErrorRecord
}

// ParseFailure records a content file whose YAML or frontmatter could
// not be parsed. Failures are corpus data: the validator reports them
// as violations instead of aborting the run.
type ParseFailure struct {
	Path   string
	Reason string
}

// Corpus is a read-only snapshot of every content file in the registry.
type Corpus struct {
	Documents  []Document
	ErrorFiles []ErrorFile
	Failures   []ParseFailure
}

// TotalEntries returns the number of error records across all files.
func (c *Corpus) TotalEntries() int {
	n := 0
	for _, f := range c.ErrorFiles {
		n += len(f.Records)
	}
	return n
}

// EventType represents the type of change observed in the corpus.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a content file.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and the lifecycle event contract).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
