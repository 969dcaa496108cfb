package leads

import (
	"strings"

	"site-integrations/internal/common/validation"
)

// Submission is the public contact form payload. The JSON names are the ones
// the site's form has always posted.
type Submission struct {
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Phone   string `json:"telefone,omitempty"`
	Company string `json:"empresa,omitempty"`
	Website string `json:"website,omitempty"`
	Message string `json:"mensagem"`
	Source  string `json:"source,omitempty"`
}

var submissionSchema = validation.JSONSchema{
	Type: "object",
	Properties: map[string]validation.Property{
		"nome":     {Type: "string", MinLength: validation.IntPtr(2), MaxLength: validation.IntPtr(200)},
		"email":    {Type: "string", Format: "email", MaxLength: validation.IntPtr(254)},
		"telefone": {Type: "string", MaxLength: validation.IntPtr(30)},
		"empresa":  {Type: "string", MaxLength: validation.IntPtr(200)},
		"website":  {Type: "string", MaxLength: validation.IntPtr(500)},
		"mensagem": {Type: "string", MinLength: validation.IntPtr(5), MaxLength: validation.IntPtr(5000)},
		"source":   {Type: "string", MaxLength: validation.IntPtr(50)},
	},
	Required:             []string{"nome", "email", "mensagem"},
	AdditionalProperties: true,
}

// normalized trims every field.
func (s Submission) normalized() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.ToLower(strings.TrimSpace(s.Email)),
		Phone:   strings.TrimSpace(s.Phone),
		Company: strings.TrimSpace(s.Company),
		Website: strings.TrimSpace(s.Website),
		Message: strings.TrimSpace(s.Message),
		Source:  strings.TrimSpace(s.Source),
	}
}

// document renders the submission for schema validation. Blank fields are
// left out so that required fields report as missing.
func (s Submission) document() map[string]interface{} {
	doc := map[string]interface{}{}
	set := func(key, value string) {
		if value != "" {
			doc[key] = value
		}
	}
	set("nome", s.Name)
	set("email", s.Email)
	set("telefone", s.Phone)
	set("empresa", s.Company)
	set("website", s.Website)
	set("mensagem", s.Message)
	set("source", s.Source)
	return doc
}

// Validate checks a normalized submission against the form schema.
func (s Submission) Validate() *validation.ValidationResult {
	return validation.ValidateInput(s.document(), submissionSchema)
}
