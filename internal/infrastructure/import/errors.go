package csvimport

import "fmt"

// Row validation messages, in the wording the import report shows to admins.
const (
	MsgEmptyFile          = "Arquivo vazio."
	MsgInvalidColumnCount = "Quantidade de colunas invalida"
	MsgMissingItemID      = "Item Id ausente"
	MsgMissingItemName    = "Item Name ausente"
	MsgMissingPrice       = "Price ausente"
	MsgMissingProductLink = "Product Link ausente"
	MsgInvalidProductLink = "Product Link invalido"
	MsgInvalidOfferLink   = "Offer Link invalido"
	MsgDuplicateItemID    = "Item Id duplicado no arquivo"
)

// ImportError is a line-addressed import failure. Errors accumulate and are
// reported; they never abort the run. File-level errors use line 0.
type ImportError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e ImportError) Error() string {
	if e.Line == 0 {
		return e.Message
	}
	return fmt.Sprintf("linha %d: %s", e.Line, e.Message)
}

// NewImportError creates a line-level import error
func NewImportError(line int, message string) ImportError {
	return ImportError{Line: line, Message: message}
}

// NewFileError creates a file-level import error (line 0)
func NewFileError(message string) ImportError {
	return ImportError{Line: 0, Message: message}
}
