package apperr

// ValidationError reports malformed input data.
type ValidationError struct {
	*BaseError
	Field string
	Value any
	Rule  string
}

// NewValidation creates a ValidationError for field failing rule.
func NewValidation(message, field string, value any, rule string, opts ...Option) *ValidationError {
	return &ValidationError{
		BaseError: build(KindValidation, message, opts),
		Field:     field,
		Value:     value,
		Rule:      rule,
	}
}

// Fields returns the error as a flat map suitable for log metadata.
func (e *ValidationError) Fields() map[string]any {
	f := e.BaseError.Fields()
	f["field"] = e.Field
	f["value"] = e.Value
	f["rule"] = e.Rule
	return f
}

// BusinessLogicError reports a violated domain rule.
type BusinessLogicError struct {
	*BaseError
	BusinessRule string
	EntityType   string
	EntityID     string
}

// NewBusinessLogic creates a BusinessLogicError for rule on the given entity.
func NewBusinessLogic(message, rule, entityType, entityID string, opts ...Option) *BusinessLogicError {
	return &BusinessLogicError{
		BaseError:    build(KindBusinessLogic, message, opts),
		BusinessRule: rule,
		EntityType:   entityType,
		EntityID:     entityID,
	}
}

// Fields returns the error as a flat map suitable for log metadata.
func (e *BusinessLogicError) Fields() map[string]any {
	f := e.BaseError.Fields()
	f["business_rule"] = e.BusinessRule
	f["entity_type"] = e.EntityType
	f["entity_id"] = e.EntityID
	return f
}

// NotImplementedError reports that an abstract method was reached.
type NotImplementedError struct {
	*BaseError
	MethodName    string
	ClassName     string
	InterfaceName string
}

// NewNotImplemented creates a NotImplementedError for method on class, which
// was expected to satisfy iface. The message is derived from the names.
func NewNotImplemented(method, class, iface string, opts ...Option) *NotImplementedError {
	msg := "method " + method + " not implemented"
	if class != "" {
		msg = class + "." + method + " not implemented"
	}
	if iface != "" {
		msg += " (required by " + iface + ")"
	}
	return &NotImplementedError{
		BaseError:     build(KindNotImplemented, msg, opts),
		MethodName:    method,
		ClassName:     class,
		InterfaceName: iface,
	}
}

// Fields returns the error as a flat map suitable for log metadata.
func (e *NotImplementedError) Fields() map[string]any {
	f := e.BaseError.Fields()
	f["method_name"] = e.MethodName
	f["class_name"] = e.ClassName
	f["interface_name"] = e.InterfaceName
	return f
}

// Fields extracts log metadata from any error. Typed errors contribute their
// full diagnostic context; other errors contribute only their message.
func Fields(err error) map[string]any {
	switch e := err.(type) {
	case nil:
		return nil
	case interface{ Fields() map[string]any }:
		return e.Fields()
	default:
		return map[string]any{"message": err.Error()}
	}
}
