package validation

var (
	PageNumber = NewSchema(
		Field{Name: "pagenumber", Kind: Integer, Required: true},
	)

	Username = NewSchema(
		Field{Name: "username", Kind: String, Required: true, Min: 2, Max: 32, Pattern: NamePattern},
	)

	CreateStory = NewSchema(
		Field{Name: "by", Kind: String, Required: true, Min: 2},
		Field{Name: "text", Kind: String, Required: true, Min: 1},
		Field{Name: "url", Kind: String, Required: true, Min: 1},
		Field{Name: "title", Kind: String, Required: true, Min: 1},
	)

	UpdateStory = NewSchema(
		Field{Name: "text", Kind: String, Required: true, Min: 1},
		Field{Name: "url", Kind: String, Required: true, Min: 1},
		Field{Name: "title", Kind: String, Required: true, Min: 1},
	)

	CreateComment = NewSchema(
		Field{Name: "by", Kind: String, Required: true, Min: 2},
		Field{Name: "text", Kind: String, Required: true, Min: 1},
	)

	UpdateComment = NewSchema(
		Field{Name: "by", Kind: String, Required: true, Min: 2},
		Field{Name: "text", Kind: String, Required: true, Min: 1},
	)

	Register = NewSchema(
		Field{Name: "username", Kind: String, Required: true, Min: 2, Max: 32, Pattern: NamePattern},
		Field{Name: "password", Kind: String, Required: true, Min: 6, Max: 32, Pattern: NamePattern},
		Field{Name: "email_address", Kind: Email, Required: true, Min: 3, Max: 256},
	)

	SignIn = NewSchema(
		Field{Name: "username", Kind: String, Required: true},
		Field{Name: "password", Kind: String, Required: true},
		Field{Name: "email_address", Kind: String, Required: true},
	)

	UpdatePassword = NewSchema(
		Field{Name: "password", Kind: String, Required: true, Min: 6, Max: 32, Pattern: NamePattern},
	)
)
