package roster

import "fmt"

const recordFieldCountTemplateConstant = "expected %d values for schema, got %d"

// AccountKind selects which platform account column to project.
type AccountKind string

// Supported account kinds.
const (
	AccountKindHost  AccountKind = AccountKind("host")
	AccountKindBoard AccountKind = AccountKind("board")
)

// UserRecord is a single roster row. It is immutable after construction.
type UserRecord struct {
	columns []string
	keys    Keys
	fields  map[string]string
}

// NewUserRecord binds ordered values to the schema columns.
func NewUserRecord(schema Schema, values []string) (UserRecord, error) {
	if len(values) != schema.Len() {
		return UserRecord{}, fmt.Errorf(recordFieldCountTemplateConstant, schema.Len(), len(values))
	}

	fields := make(map[string]string, len(values))
	for columnIndex, column := range schema.columns {
		fields[column] = values[columnIndex]
	}

	return UserRecord{columns: schema.columns, keys: schema.keys, fields: fields}, nil
}

// Field returns the value stored under the named column, or an empty string.
func (record UserRecord) Field(name string) string {
	return record.fields[name]
}

// ID returns the participant identifier.
func (record UserRecord) ID() string {
	return record.fields[record.keys.ID]
}

// Group returns the group identifier; empty when the participant is unassigned.
func (record UserRecord) Group() string {
	return record.fields[record.keys.Group]
}

// HostAccount returns the GitHub login.
func (record UserRecord) HostAccount() string {
	return record.fields[record.keys.HostAccount]
}

// BoardAccount returns the Trello username.
func (record UserRecord) BoardAccount() string {
	return record.fields[record.keys.BoardAccount]
}

// Account returns the account for the requested platform.
func (record UserRecord) Account(kind AccountKind) string {
	switch kind {
	case AccountKindHost:
		return record.HostAccount()
	case AccountKindBoard:
		return record.BoardAccount()
	default:
		return ""
	}
}

// Values returns the field values in schema order.
func (record UserRecord) Values() []string {
	values := make([]string, 0, len(record.columns))
	for _, column := range record.columns {
		values = append(values, record.fields[column])
	}
	return values
}

// Fields returns a copy of the column to value mapping.
func (record UserRecord) Fields() map[string]string {
	duplicatedFields := make(map[string]string, len(record.fields))
	for column, value := range record.fields {
		duplicatedFields[column] = value
	}
	return duplicatedFields
}
