package detections

import "github.com/JaimeStill/iris/pkg/openapi"

type spec struct {
	List          *openapi.Operation
	Upload        *openapi.Operation
	Stats         *openapi.Operation
	Snapshot      *openapi.Operation
	View          *openapi.Operation
	Report        *openapi.Operation
	Regenerate    *openapi.Operation
	ListByPatient *openapi.Operation
}

var idParam = openapi.PathParam("id", "Detection ID (DT + 8 hex)")

var imageField = &openapi.Schema{Type: "string", Format: "binary", Description: "Eye image"}

// Spec documents the detection endpoints.
var Spec = spec{
	List: &openapi.Operation{
		Summary: "List detections",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Match patient name, patient ID or detection ID", false),
			openapi.QueryParam("sort", "string", "Sort fields, e.g. -created_at", false),
			openapi.QueryParam("disease", "string", "Disease class", false),
			openapi.QueryParam("severity", "string", "MILD, MODERATE or SEVERE", false),
			openapi.QueryParam("patient_id", "string", "Patient ID", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Detection page", "DetectionPage"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Upload an eye image",
		Description: "Classifies the image, records the detection against the named patient and renders its report.",
		RequestBody: openapi.MultipartBody([]string{"image"}, map[string]*openapi.Schema{
			"image":  imageField,
			"name":   {Type: "string", Default: "Anonymous"},
			"age":    {Type: "integer"},
			"gender": {Type: "string", Enum: []any{"M", "F", "O"}},
			"phone":  {Type: "string"},
			"email":  {Type: "string"},
		}),
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Detection created", "DetectionCreated"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
			415: openapi.ResponseRef("Unsupported"),
		},
	},
	Stats: &openapi.Operation{
		Summary: "Dashboard statistics",
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Totals, tallies and recent detections", "Stats"),
		},
	},
	Snapshot: &openapi.Operation{
		Summary:     "Classify a webcam snapshot",
		Description: "Classifies the image without recording a detection.",
		RequestBody: openapi.MultipartBody([]string{"image"}, map[string]*openapi.Schema{"image": imageField}),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Prediction", "Snapshot"),
			400: openapi.ResponseRef("BadRequest"),
			405: openapi.ResponseRef("MethodNotAllowed"),
		},
	},
	View: &openapi.Operation{
		Summary:    "View a detection",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Detection with patient and formatted content", "DetectionView"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Report: &openapi.Operation{
		Summary:     "Download the PDF report",
		Description: "Regenerates the report when it is missing.",
		Parameters:  []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: {
				Description: "PDF report",
				Content: map[string]*openapi.MediaType{
					"application/pdf": {Schema: &openapi.Schema{Type: "string", Format: "binary"}},
				},
			},
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Regenerate: &openapi.Operation{
		Summary:    "Regenerate the PDF report",
		Parameters: []*openapi.Parameter{idParam},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Detection with its new report key", "Detection"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	ListByPatient: &openapi.Operation{
		Summary:    "List a patient's detections",
		Tags:       []string{"Patients"},
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Patient ID (PT + 8 hex)")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Detection page", "DetectionPage"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
}

var probabilities = &openapi.Schema{
	Type:        "object",
	Description: "Percentage per disease class",
	Example:     map[string]float64{"cataract": 4.2, "diabetic_retinopathy": 8.1, "glaucoma": 80, "normal": 7.7},
}

// Schemas returns the component schemas the detection operations reference.
func Schemas() map[string]*openapi.Schema {
	detection := &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":             {Type: "string", Example: "DT1A2B3C4D"},
			"patient_id":     {Type: "string"},
			"patient_name":   {Type: "string"},
			"image_key":      {Type: "string"},
			"disease":        {Type: "string", Enum: []any{"cataract", "diabetic_retinopathy", "glaucoma", "normal"}},
			"confidence":     {Type: "number", Description: "Percentage, two decimals"},
			"severity":       {Type: "string", Enum: []any{"MILD", "MODERATE", "SEVERE"}},
			"content":        {Type: "object", Description: "english, tamil, symptoms, causes, treatment, prevention, disclaimer"},
			"content_source": {Type: "string", Enum: []any{"generative", "static"}},
			"all_probs":      probabilities,
			"report_key":     {Type: "string"},
			"created_at":     {Type: "string", Format: "date-time"},
		},
	}

	return map[string]*openapi.Schema{
		"Detection": detection,
		"DetectionPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Detection")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"DetectionCreated": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":       {Type: "string"},
				"location": {Type: "string"},
			},
		},
		"DetectionView": {
			Type:        "object",
			Description: "Detection plus patient, display names, colours and list-formatted content",
			Properties: map[string]*openapi.Schema{
				"detection": openapi.SchemaRef("Detection"),
				"patient":   openapi.SchemaRef("Patient"),
			},
		},
		"Snapshot": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"disease":      {Type: "string"},
				"disease_name": {Type: "string"},
				"confidence":   {Type: "number"},
				"severity":     {Type: "string"},
				"all_probs":    probabilities,
			},
		},
		"Stats": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"total_detections": {Type: "integer"},
				"total_patients":   {Type: "integer"},
				"by_disease":       {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"by_severity":      {Type: "array", Items: &openapi.Schema{Type: "object"}},
				"recent":           {Type: "array", Items: openapi.SchemaRef("Detection")},
				"monthly":          {Type: "array", Items: &openapi.Schema{Type: "object"}},
			},
		},
	}
}
