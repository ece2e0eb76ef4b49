package reference

// Field selects one displayable value of a Record.
type Field string

// Computed selectors.
const (
	FieldNone         Field = ""
	FieldKey          Field = "id"
	FieldAuthor       Field = "author"
	FieldSurnames     Field = "surnames"
	FieldAuthorYear   Field = "author_year"
	FieldUniqueSuffix Field = "unique_suffix"
)

// Source field selectors used by the reference list templates.
const (
	FieldAddress      Field = "address"
	FieldBooktitle    Field = "booktitle"
	FieldChapter      Field = "chapter"
	FieldDOI          Field = "doi"
	FieldEdition      Field = "edition"
	FieldEditor       Field = "editor"
	FieldHowPublished Field = "howpublished"
	FieldInstitution  Field = "institution"
	FieldJournal      Field = "journal"
	FieldLink         Field = "link"
	FieldNumber       Field = "number"
	FieldOrganization Field = "organization"
	FieldPages        Field = "pages"
	FieldPublisher    Field = "publisher"
	FieldSchool       Field = "school"
	FieldSeries       Field = "series"
	FieldTitle        Field = "title"
	FieldURL          Field = "url"
	FieldVolume       Field = "volume"
	FieldYear         Field = "year"
)
