package ir

// Registry holds the raw (uninterned) internal-form type descriptors and
// method names that identify the reflection API on the target runtime.
// It is the concrete shape behind spec.md §6's "recognizers for the
// reflection-API types" and §4.3's "Interning of API handles" — populated
// by transfer.DefaultRegistry (transfer/apitypes.yaml) or
// transfer.LoadRegistryFile so that a differently
// named runtime can be targeted without touching the transfer function's
// logic (SPEC_FULL.md §3.6).
type Registry struct {
	ObjectType string `yaml:"object_type"`
	ClassType  string `yaml:"class_type"`
	StringType string `yaml:"string_type"`
	MethodType string `yaml:"method_type"`
	FieldType  string `yaml:"field_type"`

	GetClass string `yaml:"get_class"`

	GetMethod               string `yaml:"get_method"`
	GetDeclaredMethod       string `yaml:"get_declared_method"`
	GetConstructor          string `yaml:"get_constructor"`
	GetDeclaredConstructor  string `yaml:"get_declared_constructor"`
	GetConstructors         string `yaml:"get_constructors"`
	GetDeclaredConstructors string `yaml:"get_declared_constructors"`

	GetField         string `yaml:"get_field"`
	GetDeclaredField string `yaml:"get_declared_field"`

	MethodGetName string `yaml:"method_get_name"`
	FieldGetName  string `yaml:"field_get_name"`

	ForName string `yaml:"for_name"`

	// ConstructorName is the literal constructor name token bound for
	// constructor-lookup methods (spec.md §4.3's hard-coded "<init>").
	ConstructorName string `yaml:"constructor_name"`
}

// DefaultRegistry returns the registry matching the reflection API of the
// reference runtime spec.md is modeled on (java.lang / java.lang.reflect).
func DefaultRegistry() Registry {
	return Registry{
		ObjectType: "Ljava/lang/Object;",
		ClassType:  "Ljava/lang/Class;",
		StringType: "Ljava/lang/String;",
		MethodType: "Ljava/lang/reflect/Method;",
		FieldType:  "Ljava/lang/reflect/Field;",

		GetClass: "getClass",

		GetMethod:               "getMethod",
		GetDeclaredMethod:       "getDeclaredMethod",
		GetConstructor:          "getConstructor",
		GetDeclaredConstructor:  "getDeclaredConstructor",
		GetConstructors:         "getConstructors",
		GetDeclaredConstructors: "getDeclaredConstructors",

		GetField:         "getField",
		GetDeclaredField: "getDeclaredField",

		MethodGetName: "getName",
		FieldGetName:  "getName",

		ForName: "forName",

		ConstructorName: "<init>",
	}
}
