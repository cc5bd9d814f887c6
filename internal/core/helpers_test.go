package core_test

import (
	"fmt"
	"sync"

	"github.com/toejough/automock/internal/core"
)

// Srvc1 is a dependency with void methods.
type Srvc1 interface {
	Method()
	MethodWithStringParameter(value string)
}

// Srvc2 is a dependency with results.
type Srvc2 interface {
	Function() string
	FunctionWithStringParameter(value string) string
}

// Notifier has a variadic method.
type Notifier interface {
	Notify(message string, ids ...int) bool
}

// Repo has multiple results, including collections and nested interfaces.
type Repo interface {
	Get(key string) (int, error)
	Keys() []string
	Index() map[string]int
	Service() Srvc2
}

// Unregistered has no mock factory.
type Unregistered interface {
	Do()
}

// TestObject is the target built in fixture tests.
type TestObject struct {
	a Srvc1
	b Srvc2
}

// NewTestObject is the richest constructor.
func NewTestObject(a Srvc1, b Srvc2) *TestObject {
	return &TestObject{a: a, b: b}
}

// NewTestObjectWithDefaultSrvc2 is a poorer constructor.
func NewTestObjectWithDefaultSrvc2(a Srvc1) *TestObject {
	return &TestObject{a: a}
}

func (o *TestObject) Function() string {
	o.b.Function()

	return "foo"
}

func (o *TestObject) FunctionWithStringParameter(value string) string {
	o.b.FunctionWithStringParameter(value)

	return value
}

func (o *TestObject) Method() {
	o.a.Method()
}

func (o *TestObject) MethodWithStringParameter(value string) {
	o.a.MethodWithStringParameter(value)
}

// fakeReporter records failures instead of stopping the test.
type fakeReporter struct {
	mu       sync.Mutex
	failures []string
	logs     []string
}

func (r *fakeReporter) Failures() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.failures...)
}

func (r *fakeReporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *fakeReporter) Helper() {}

func (r *fakeReporter) Logf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs = append(r.logs, fmt.Sprintf(format, args...))
}

func (r *fakeReporter) Logs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.logs...)
}

type notifierMock struct {
	mock *core.Mock[Notifier]
}

func (m *notifierMock) Notify(message string, ids ...int) bool {
	args := make([]any, 0, 1+len(ids))
	args = append(args, message)

	for _, id := range ids {
		args = append(args, id)
	}

	results := m.mock.Called("Notify", args...)

	return core.Out[bool](results, 0)
}

type repoMock struct {
	mock *core.Mock[Repo]
}

func (m *repoMock) Get(key string) (int, error) {
	results := m.mock.Called("Get", key)

	return core.Out[int](results, 0), core.Out[error](results, 1)
}

func (m *repoMock) Index() map[string]int {
	return core.Out[map[string]int](m.mock.Called("Index"), 0)
}

func (m *repoMock) Keys() []string {
	return core.Out[[]string](m.mock.Called("Keys"), 0)
}

func (m *repoMock) Service() Srvc2 {
	return core.Out[Srvc2](m.mock.Called("Service"), 0)
}

type srvc1Mock struct {
	mock *core.Mock[Srvc1]
}

func (m *srvc1Mock) Method() {
	m.mock.Called("Method")
}

func (m *srvc1Mock) MethodWithStringParameter(value string) {
	m.mock.Called("MethodWithStringParameter", value)
}

type srvc2Mock struct {
	mock *core.Mock[Srvc2]
}

func (m *srvc2Mock) Function() string {
	return core.Out[string](m.mock.Called("Function"), 0)
}

func (m *srvc2Mock) FunctionWithStringParameter(value string) string {
	return core.Out[string](m.mock.Called("FunctionWithStringParameter", value), 0)
}

//nolint:gochecknoinits // mirrors the init registration generated adapters use
func init() {
	core.Register(func(m *core.Mock[Srvc1]) Srvc1 { return &srvc1Mock{mock: m} })
	core.Register(func(m *core.Mock[Srvc2]) Srvc2 { return &srvc2Mock{mock: m} })
	core.Register(func(m *core.Mock[Notifier]) Notifier { return &notifierMock{mock: m} })
	core.Register(func(m *core.Mock[Repo]) Repo { return &repoMock{mock: m} })
}
