package roster

import (
	"errors"
	"fmt"
	"strings"
)

const (
	schemaColumnSeparatorConstant         = ";"
	schemaEmptyMessageConstant            = "roster schema must declare at least one column"
	schemaBlankColumnTemplateConstant     = "roster schema column %d is blank"
	schemaDuplicateColumnTemplateConstant = "roster schema column %q is declared twice"
	schemaUnknownKeyTemplateConstant      = "roster schema key %s=%q is not a schema column"
	keyNameIdentifierConstant             = "id"
	keyNameGroupConstant                  = "group"
	keyNameHostAccountConstant            = "github"
	keyNameBoardAccountConstant           = "trello"
)

// Keys names the schema columns that carry the well-known user fields.
type Keys struct {
	ID           string
	Group        string
	HostAccount  string
	BoardAccount string
}

// Schema is the ordered list of roster columns plus the well-known key mapping.
type Schema struct {
	columns []string
	keys    Keys
}

// ParseSchema splits a semicolon separated column declaration and validates it against keys.
func ParseSchema(declaration string, keys Keys) (Schema, error) {
	rawColumns := strings.Split(declaration, schemaColumnSeparatorConstant)
	columns := make([]string, 0, len(rawColumns))
	for _, rawColumn := range rawColumns {
		columns = append(columns, strings.TrimSpace(rawColumn))
	}
	if len(columns) == 1 && len(columns[0]) == 0 {
		return Schema{}, errors.New(schemaEmptyMessageConstant)
	}
	return NewSchema(columns, keys)
}

// NewSchema validates columns and keys and returns an immutable Schema.
func NewSchema(columns []string, keys Keys) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, errors.New(schemaEmptyMessageConstant)
	}

	seenColumns := make(map[string]struct{}, len(columns))
	for columnIndex, column := range columns {
		if len(column) == 0 {
			return Schema{}, fmt.Errorf(schemaBlankColumnTemplateConstant, columnIndex+1)
		}
		if _, duplicate := seenColumns[column]; duplicate {
			return Schema{}, fmt.Errorf(schemaDuplicateColumnTemplateConstant, column)
		}
		seenColumns[column] = struct{}{}
	}

	keyChecks := []struct {
		name  string
		value string
	}{
		{name: keyNameIdentifierConstant, value: keys.ID},
		{name: keyNameGroupConstant, value: keys.Group},
		{name: keyNameHostAccountConstant, value: keys.HostAccount},
		{name: keyNameBoardAccountConstant, value: keys.BoardAccount},
	}
	for _, keyCheck := range keyChecks {
		if _, known := seenColumns[keyCheck.value]; !known {
			return Schema{}, fmt.Errorf(schemaUnknownKeyTemplateConstant, keyCheck.name, keyCheck.value)
		}
	}

	duplicatedColumns := make([]string, len(columns))
	copy(duplicatedColumns, columns)

	return Schema{columns: duplicatedColumns, keys: keys}, nil
}

// Columns returns a copy of the ordered column names.
func (schema Schema) Columns() []string {
	duplicatedColumns := make([]string, len(schema.columns))
	copy(duplicatedColumns, schema.columns)
	return duplicatedColumns
}

// Keys returns the well-known key mapping.
func (schema Schema) Keys() Keys {
	return schema.keys
}

// Len returns the number of columns.
func (schema Schema) Len() int {
	return len(schema.columns)
}
