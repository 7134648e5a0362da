package csvimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldType is the expected type of a CSV column value.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInt     FieldType = "int"
	TypeDecimal FieldType = "decimal"
	TypeBool    FieldType = "bool"
)

// FieldRule holds the validation constraints for one CSV column of a listing
// import, e.g. "base_price" must parse as a decimal and be non-negative.
type FieldRule struct {
	Column    string
	Type      FieldType
	Required  bool
	MinLength int
	MaxLength int
	MinValue  *decimal.Decimal
	MaxValue  *decimal.Decimal
	Unique    bool
	Reference string // lookup type for foreign columns, e.g. "category"
}

// FieldRuleBuilder assembles a FieldRule fluently:
//
//	Field("category").Required().String().Reference("category").Build()
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field starts a rule for the named column
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{rule: FieldRule{Column: column, Type: TypeString}}
}

// Required marks the column as mandatory in every row
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// String expects free text
func (b *FieldRuleBuilder) String() *FieldRuleBuilder {
	b.rule.Type = TypeString
	return b
}

// Int expects a whole number, e.g. a stock quantity
func (b *FieldRuleBuilder) Int() *FieldRuleBuilder {
	b.rule.Type = TypeInt
	return b
}

// Decimal expects a decimal string, used for prices and rates
func (b *FieldRuleBuilder) Decimal() *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	return b
}

// Bool expects a truthy/falsy marker (true/false, yes/no, 1/0)
func (b *FieldRuleBuilder) Bool() *FieldRuleBuilder {
	b.rule.Type = TypeBool
	return b
}

// Length bounds the value length, inclusive on both ends
func (b *FieldRuleBuilder) Length(min, max int) *FieldRuleBuilder {
	b.rule.MinLength = min
	b.rule.MaxLength = max
	return b
}

// MinLength sets only the lower length bound
func (b *FieldRuleBuilder) MinLength(min int) *FieldRuleBuilder {
	b.rule.MinLength = min
	return b
}

// MaxLength sets only the upper length bound
func (b *FieldRuleBuilder) MaxLength(max int) *FieldRuleBuilder {
	b.rule.MaxLength = max
	return b
}

// MinValue sets the lower bound for numeric columns
func (b *FieldRuleBuilder) MinValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &v
	return b
}

// MaxValue sets the upper bound for numeric columns
func (b *FieldRuleBuilder) MaxValue(v decimal.Decimal) *FieldRuleBuilder {
	b.rule.MaxValue = &v
	return b
}

// Range bounds a numeric column on both ends, e.g. a GST rate in [0, 100]
func (b *FieldRuleBuilder) Range(min, max decimal.Decimal) *FieldRuleBuilder {
	b.rule.MinValue = &min
	b.rule.MaxValue = &max
	return b
}

// Unique rejects a value that appears twice in the same file, e.g. a SKU
func (b *FieldRuleBuilder) Unique() *FieldRuleBuilder {
	b.rule.Unique = true
	return b
}

// Reference marks the column as a lookup against existing data. The import
// processor resolves it through its reference lookup, so "category" checks
// the category table without the validator knowing about repositories.
func (b *FieldRuleBuilder) Reference(refType string) *FieldRuleBuilder {
	b.rule.Reference = refType
	return b
}

// Build returns the assembled rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator applies a rule set to rows, accumulating per-row errors.
// Rules are kept in declaration order so error output is stable across runs.
type FieldValidator struct {
	rules       []FieldRule
	uniqueCheck map[string]map[string]int // column -> value -> first line seen
	errors      *ErrorCollection
}

// NewFieldValidator creates a validator for the given rules
func NewFieldValidator(rules []FieldRule, maxErrors int) *FieldValidator {
	return &FieldValidator{
		rules:       rules,
		uniqueCheck: make(map[string]map[string]int),
		errors:      NewErrorCollection(maxErrors),
	}
}

// ValidateRow checks one row against every rule. Empty optional columns are
// accepted as-is; empty required columns fail before any type check so a
// blank "base_price" reports missing, not unparseable.
func (v *FieldValidator) ValidateRow(row *Row) bool {
	ok := true

	for _, rule := range v.rules {
		value := row.Get(rule.Column)

		if value == "" {
			if rule.Required {
				v.errors.AddRequiredError(row.LineNumber, rule.Column)
				ok = false
			}
			continue
		}

		if err := parseAs(value, rule.Type); err != nil {
			v.errors.AddTypeError(row.LineNumber, rule.Column, string(rule.Type), value)
			ok = false
			continue
		}

		if outOfLength(value, rule) {
			v.errors.AddLengthError(row.LineNumber, rule.Column, rule.MinLength, rule.MaxLength)
			ok = false
		}

		if rule.Type == TypeInt || rule.Type == TypeDecimal {
			if err := checkBounds(value, rule.MinValue, rule.MaxValue); err != nil {
				v.errors.AddRangeError(row.LineNumber, rule.Column, rule.MinValue, rule.MaxValue)
				ok = false
			}
		}

		if rule.Unique && !v.checkUniqueInFile(row.LineNumber, rule.Column, value) {
			ok = false
		}
	}

	return ok
}

func (v *FieldValidator) checkUniqueInFile(line int, column, value string) bool {
	if v.uniqueCheck[column] == nil {
		v.uniqueCheck[column] = make(map[string]int)
	}
	if firstLine, seen := v.uniqueCheck[column][value]; seen {
		v.errors.Add(NewRowErrorWithValue(line, column, ErrCodeImportDuplicateInFile,
			fmt.Sprintf("duplicate value '%s' (first seen in row %d)", value, firstLine), value))
		return false
	}
	v.uniqueCheck[column][value] = line
	return true
}

// Errors returns the accumulated row errors
func (v *FieldValidator) Errors() *ErrorCollection {
	return v.errors
}

// Reset clears accumulated state so the validator can run another file
func (v *FieldValidator) Reset() {
	v.uniqueCheck = make(map[string]map[string]int)
	v.errors.Clear()
}

func parseAs(value string, fieldType FieldType) error {
	switch fieldType {
	case TypeInt:
		_, err := strconv.ParseInt(value, 10, 64)
		return err
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	case TypeBool:
		switch strings.ToLower(value) {
		case "true", "false", "1", "0", "yes", "no", "y", "n":
			return nil
		}
		return fmt.Errorf("invalid boolean value: %s", value)
	}
	return nil
}

func outOfLength(value string, rule FieldRule) bool {
	if rule.MaxLength > 0 && len(value) > rule.MaxLength {
		return true
	}
	return rule.MinLength > 0 && len(value) < rule.MinLength
}

func checkBounds(value string, min, max *decimal.Decimal) error {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return err
	}
	if min != nil && d.LessThan(*min) {
		return fmt.Errorf("value %s is below minimum %s", value, min.String())
	}
	if max != nil && d.GreaterThan(*max) {
		return fmt.Errorf("value %s is above maximum %s", value, max.String())
	}
	return nil
}

// ReferenceValidator resolves foreign columns (category names, seller emails)
// against existing records, caching lookups so a file with five hundred rows
// in the same category hits the store once.
type ReferenceValidator struct {
	cache      map[string]map[string]bool // refType -> value -> exists
	lookupFunc func(refType, value string) (bool, error)
	errors     *ErrorCollection
}

// NewReferenceValidator creates a reference validator backed by lookupFunc
func NewReferenceValidator(lookupFunc func(refType, value string) (bool, error), maxErrors int) *ReferenceValidator {
	return &ReferenceValidator{
		cache:      make(map[string]map[string]bool),
		lookupFunc: lookupFunc,
		errors:     NewErrorCollection(maxErrors),
	}
}

// ValidateReference checks that the referenced record exists. Empty values
// pass; a required+reference column reports missing via the field validator
// instead.
func (v *ReferenceValidator) ValidateReference(row int, column, refType, value string) bool {
	if value == "" {
		return true
	}

	exists, cached := v.cachedLookup(refType, value)
	if !cached {
		var err error
		exists, err = v.lookupFunc(refType, value)
		if err != nil {
			v.errors.AddValidationError(row, column, ErrCodeImportValidation,
				fmt.Sprintf("error checking %s reference: %v", refType, err))
			return false
		}
		v.store(refType, value, exists)
	}

	if !exists {
		v.errors.AddReferenceError(row, column, value, refType)
		return false
	}
	return true
}

func (v *ReferenceValidator) cachedLookup(refType, value string) (exists, cached bool) {
	if v.cache[refType] == nil {
		return false, false
	}
	exists, cached = v.cache[refType][value]
	return exists, cached
}

func (v *ReferenceValidator) store(refType, value string, exists bool) {
	if v.cache[refType] == nil {
		v.cache[refType] = make(map[string]bool)
	}
	v.cache[refType][value] = exists
}

// Errors returns the accumulated reference errors
func (v *ReferenceValidator) Errors() *ErrorCollection {
	return v.errors
}

// Reset clears the lookup cache
func (v *ReferenceValidator) Reset() {
	v.cache = make(map[string]map[string]bool)
	v.errors.Clear()
}

// UniquenessValidator checks values against records that already exist, for
// columns like SKU where an in-file check is not enough.
type UniquenessValidator struct {
	lookupFunc func(entityType, field, value string) (bool, error)
	errors     *ErrorCollection
}

// NewUniquenessValidator creates a uniqueness validator backed by lookupFunc
func NewUniquenessValidator(lookupFunc func(entityType, field, value string) (bool, error), maxErrors int) *UniquenessValidator {
	return &UniquenessValidator{
		lookupFunc: lookupFunc,
		errors:     NewErrorCollection(maxErrors),
	}
}

// ValidateUnique reports false when the value already exists in the store
func (v *UniquenessValidator) ValidateUnique(row int, column, entityType, value string) bool {
	if value == "" {
		return true
	}

	exists, err := v.lookupFunc(entityType, column, value)
	if err != nil {
		v.errors.AddValidationError(row, column, ErrCodeImportValidation,
			fmt.Sprintf("error checking uniqueness: %v", err))
		return false
	}

	if exists {
		v.errors.AddDuplicateError(row, column, value, true)
		return false
	}
	return true
}

// Errors returns the accumulated uniqueness errors
func (v *UniquenessValidator) Errors() *ErrorCollection {
	return v.errors
}
