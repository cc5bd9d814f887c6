// Package services is the object graph the auto-mocking walkthrough builds:
// a TestObject that depends on two services through its constructors.
package services

// ISrvc1 is a service with no results.
type ISrvc1 interface {
	Method()
	MethodWithStringParameter(value string)
}

// ISrvc2 is a service with results.
type ISrvc2 interface {
	Function() string
	FunctionWithStringParameter(value string) string
}

// TestObject forwards to its services.
type TestObject struct {
	srvc1 ISrvc1
	srvc2 ISrvc2
}

// NewTestObject builds a TestObject using both services.
func NewTestObject(srvc1 ISrvc1, srvc2 ISrvc2) *TestObject {
	return &TestObject{srvc1: srvc1, srvc2: srvc2}
}

// NewTestObjectWithSrvc1 builds a TestObject without a second service.
func NewTestObjectWithSrvc1(srvc1 ISrvc1) *TestObject {
	return &TestObject{srvc1: srvc1}
}

// Function calls ISrvc2.Function and ignores its result.
func (o *TestObject) Function() string {
	o.srvc2.Function()

	return "foo"
}

// FunctionWithStringParameter returns what ISrvc2 returns for value.
func (o *TestObject) FunctionWithStringParameter(value string) string {
	return o.srvc2.FunctionWithStringParameter(value)
}

// Method calls ISrvc1.Method.
func (o *TestObject) Method() {
	o.srvc1.Method()
}

// MethodWithStringParameter calls ISrvc1.MethodWithStringParameter.
func (o *TestObject) MethodWithStringParameter(value string) {
	o.srvc1.MethodWithStringParameter(value)
}
