package patients

import "github.com/JaimeStill/iris/pkg/openapi"

type spec struct {
	List   *openapi.Operation
	Find   *openapi.Operation
	Delete *openapi.Operation
}

var idParam = openapi.PathParam("id", "Patient ID (PT + 8 hex)")

// Spec documents the patient endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List patients",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Match name, ID, phone or email", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. name,-created_at", false),
			openapi.QueryParam("gender", "string", "M, F or O", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Patient page", "PatientPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Find a patient",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Patient", "Patient"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Delete: &openapi.Operation{
		Summary:     "Delete a patient",
		Description: "Deletes the patient with every detection and stored artifact.",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			204: {Description: "Deleted"},
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

// Schemas returns the component schemas the patient operations reference.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Patient": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":         {Type: "string", Example: "PT9F8E7D6C"},
				"name":       {Type: "string"},
				"age":        {Type: "integer"},
				"gender":     {Type: "string", Enum: []any{"M", "F", "O"}},
				"phone":      {Type: "string"},
				"email":      {Type: "string"},
				"created_at": {Type: "string", Format: "date-time"},
			},
		},
		"PatientPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Patient")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
