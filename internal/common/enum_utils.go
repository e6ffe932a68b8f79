package common

import (
	"fmt"
	"strings"
)

// EnumStringMap maps enum ordinal values to their string representations.
type EnumStringMap map[int]string

// EnumRegistry provides utilities for managing enum string representations.
type EnumRegistry struct {
	mappings map[string]EnumStringMap
	reverse  map[string]map[string]int
}

// NewEnumRegistry creates a new EnumRegistry instance.
func NewEnumRegistry() *EnumRegistry {
	return &EnumRegistry{
		mappings: make(map[string]EnumStringMap),
		reverse:  make(map[string]map[string]int),
	}
}

// RegisterEnum registers an enum type with its string mapping.
// Parsing through the registry is case-insensitive.
func (er *EnumRegistry) RegisterEnum(typeName string, mapping EnumStringMap) {
	er.mappings[typeName] = mapping
	reverse := make(map[string]int, len(mapping))
	for value, str := range mapping {
		reverse[strings.ToLower(str)] = value
	}
	er.reverse[typeName] = reverse
}

// FormatEnum formats an enum value for a registered type.
func (er *EnumRegistry) FormatEnum(typeName string, value int) string {
	if mapping, exists := er.mappings[typeName]; exists {
		if str, found := mapping[value]; found {
			return str
		}
	}
	return fmt.Sprintf("unknown_%s(%d)", typeName, value)
}

// ParseEnum parses a string to its enum value.
func (er *EnumRegistry) ParseEnum(typeName, str string) (int, bool) {
	reverse, exists := er.reverse[typeName]
	if !exists {
		return 0, false
	}
	value, found := reverse[strings.ToLower(strings.TrimSpace(str))]
	return value, found
}

// GetEnumMapping returns the mapping for a registered enum type.
func (er *EnumRegistry) GetEnumMapping(typeName string) (EnumStringMap, bool) {
	mapping, exists := er.mappings[typeName]
	return mapping, exists
}

// Common enum mappings used throughout the codebase

// ColTypeMapping maps column types to their string representations.
var ColTypeMapping = EnumStringMap{
	0: "Bool",        // value.TypeBool
	1: "Categorical", // value.TypeCategorical
	2: "Int32",       // value.TypeInt32
	3: "Int64",       // value.TypeInt64
	4: "Float32",     // value.TypeFloat32
	5: "Float64",     // value.TypeFloat64
	6: "Str",         // value.TypeStr
	7: "DateTime",    // value.TypeDateTime
}

// AggregationMapping maps aggregation kinds to their string representations.
var AggregationMapping = EnumStringMap{
	0:  "None",
	1:  "Count",
	2:  "Unique",
	3:  "Top",
	4:  "Frequency",
	5:  "First",
	6:  "Last",
	7:  "Sum",
	8:  "Avg",
	9:  "Min",
	10: "Max",
	11: "Std",
	12: "Median",
	13: "25%",
	14: "75%",
	15: "Mode",
	16: "Random",
}

// JoinTypeMapping maps join types to their string representations.
var JoinTypeMapping = EnumStringMap{
	0: "INNER", // InnerJoin
	1: "LEFT",  // LeftJoin
}

// SortOrderMapping maps sort orders to their string representations.
var SortOrderMapping = EnumStringMap{
	0: "ASC",  // Ascending
	1: "DESC", // Descending
}

// FilterOperatorMapping maps filter operators to their string representations.
var FilterOperatorMapping = EnumStringMap{
	0: "==",      // Equal
	1: "!=",      // NotEqual
	2: ">",       // Greater
	3: "<",       // Less
	4: ">=",      // GreaterOrEqual
	5: "<=",      // LessOrEqual
	6: "IsNull",  // IsNull
	7: "NonNull", // NonNull
}

// DiffTypeMapping maps difference modes to their string representations.
var DiffTypeMapping = EnumStringMap{
	0: "Seasonal",  // Seasonal
	1: "Recursive", // Recursive
}

// Default enum registry with common mappings.
var defaultEnumRegistry = func() *EnumRegistry {
	registry := NewEnumRegistry()
	registry.RegisterEnum("ColType", ColTypeMapping)
	registry.RegisterEnum("Aggregation", AggregationMapping)
	registry.RegisterEnum("JoinType", JoinTypeMapping)
	registry.RegisterEnum("SortOrder", SortOrderMapping)
	registry.RegisterEnum("FilterOperator", FilterOperatorMapping)
	registry.RegisterEnum("DiffType", DiffTypeMapping)
	return registry
}()

// FormatEnum formats a value with the given mapping.
func FormatEnum(value int, mapping EnumStringMap) string {
	if str, ok := mapping[value]; ok {
		return str
	}
	return fmt.Sprintf("unknown(%d)", value)
}

// FormatColType formats a column type enum value.
func FormatColType(t int) string {
	return defaultEnumRegistry.FormatEnum("ColType", t)
}

// FormatAggregation formats an aggregation kind enum value.
func FormatAggregation(kind int) string {
	return defaultEnumRegistry.FormatEnum("Aggregation", kind)
}

// FormatJoinType formats a join type enum value.
func FormatJoinType(joinType int) string {
	return defaultEnumRegistry.FormatEnum("JoinType", joinType)
}

// FormatSortOrder formats a sort order enum value.
func FormatSortOrder(order int) string {
	return defaultEnumRegistry.FormatEnum("SortOrder", order)
}

// FormatFilterOperator formats a filter operator enum value.
func FormatFilterOperator(op int) string {
	return defaultEnumRegistry.FormatEnum("FilterOperator", op)
}

// FormatDiffType formats a difference mode enum value.
func FormatDiffType(diffType int) string {
	return defaultEnumRegistry.FormatEnum("DiffType", diffType)
}

// ParseColType parses a column type string.
func ParseColType(str string) (int, bool) {
	return defaultEnumRegistry.ParseEnum("ColType", str)
}

// ParseAggregation parses an aggregation kind string.
func ParseAggregation(str string) (int, bool) {
	return defaultEnumRegistry.ParseEnum("Aggregation", str)
}

// ParseJoinType parses a join type string.
func ParseJoinType(str string) (int, bool) {
	return defaultEnumRegistry.ParseEnum("JoinType", str)
}

// ParseSortOrder parses a sort order string.
func ParseSortOrder(str string) (int, bool) {
	return defaultEnumRegistry.ParseEnum("SortOrder", str)
}

// ParseFilterOperator parses a filter operator string.
func ParseFilterOperator(str string) (int, bool) {
	return defaultEnumRegistry.ParseEnum("FilterOperator", str)
}
