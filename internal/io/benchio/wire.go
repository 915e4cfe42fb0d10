package benchio

type errorReply struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type fieldValue struct {
	Value        any    `json:"value"`
	DisplayValue string `json:"displayValue,omitempty"`
}

type entity struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Fields map[string]fieldValue `json:"fields,omitempty"`
}

type entityList struct {
	DNASequences   []entity `json:"dnaSequences"`
	CustomEntities []entity `json:"customEntities"`
	NextToken      string   `json:"nextToken"`
}

type entityCreate struct {
	Name           string                `json:"name"`
	Bases          string                `json:"bases,omitempty"`
	IsCircular     *bool                 `json:"isCircular,omitempty"`
	FolderID       string                `json:"folderId,omitempty"`
	SchemaID       string                `json:"schemaId,omitempty"`
	Fields         map[string]fieldValue `json:"fields,omitempty"`
	RegistryID     string                `json:"registryId,omitempty"`
	NamingStrategy string                `json:"namingStrategy,omitempty"`
}

type bulkDNA struct {
	DNASequences []entityCreate `json:"dnaSequences"`
}

type bulkCustom struct {
	CustomEntities []entityCreate `json:"customEntities"`
}

type taskRef struct {
	TaskID string `json:"taskId"`
}

// Task statuses.
const (
	taskRunning   = "RUNNING"
	taskSucceeded = "SUCCEEDED"
	taskFailed    = "FAILED"
)

type taskError struct {
	Message string `json:"message"`
}

type taskReply struct {
	Status   string      `json:"status"`
	Message  string      `json:"message"`
	Errors   []taskError `json:"errors"`
	Response entityList  `json:"response"`
}

type blobURL struct {
	DownloadURL string `json:"downloadURL"`
}

type blobCreate struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Type     string `json:"type"`
	Data64   string `json:"data64"`
	MD5      string `json:"md5"`
}

type blobReply struct {
	ID           string `json:"id"`
	UploadStatus string `json:"uploadStatus"`
}

type well struct {
	ID      string `json:"id"`
	Barcode string `json:"barcode"`
	Name    string `json:"name"`
}

type plate struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Wells map[string]well `json:"wells"`
}

type quantity struct {
	Value float64 `json:"value"`
	Units string  `json:"units"`
}

type transfer struct {
	DestinationContainerID string   `json:"destinationContainerId"`
	SourceEntityID         string   `json:"sourceEntityId"`
	TransferQuantity       quantity `json:"transferQuantity"`
}

type transfers struct {
	Transfers []transfer `json:"transfers"`
}

type note struct {
	Type          string `json:"type"`
	APIID         string `json:"apiId"`
	AssaySchemaID string `json:"assaySchemaId"`
}

type day struct {
	Notes []note `json:"notes"`
}

type entry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Days []day  `json:"days"`
}

type entryList struct {
	Entries   []entry `json:"entries"`
	NextToken string  `json:"nextToken"`
}

type entryReply struct {
	Entry entry `json:"entry"`
}

type assayResult struct {
	SchemaID  string                `json:"schemaId"`
	ProjectID string                `json:"projectId,omitempty"`
	Fields    map[string]fieldValue `json:"fields"`
}

type bulkResults struct {
	AssayResults []assayResult `json:"assayResults"`
	TableID      string        `json:"tableId"`
}
