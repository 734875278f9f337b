package email

// PreviewData holds sample data for every template, keyed by template name.
// It is used to render templates locally without sending anything.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName": "Jane Doe",
	},
}
