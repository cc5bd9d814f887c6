package core_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/automock/internal/core"
	"pgregory.net/rapid"
)

// TestBuild_NoParameters_TargetIsBuilt verifies the basic fixture flow.
func TestBuild_NoParameters_TargetIsBuilt(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](t, []any{NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(fixture.Target()).NotTo(BeNil())
	g.Expect(core.MockOf[Srvc1](fixture)).NotTo(BeNil())
	g.Expect(core.MockOf[Srvc2](fixture)).NotTo(BeNil())
}

// TestBuild_DefaultsToLooseMocksWithEmptyValues verifies the default options.
func TestBuild_DefaultsToLooseMocksWithEmptyValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](t, []any{NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	for _, param := range fixture.Parameters() {
		g.Expect(param.Mock.Mode()).To(Equal(core.Loose))
		g.Expect(param.Mock.DefaultValue()).To(Equal(core.DefaultEmpty))
	}

	g.Expect(fixture.Target().Function()).To(Equal("foo"))
}

// TestBuild_Alternate_InvertsModeOfListedTypes verifies per-type mode overrides in both directions.
func TestBuild_Alternate_InvertsModeOfListedTypes(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		mode      core.Mode
		alternate reflect.Type
		srvc1     core.Mode
		srvc2     core.Mode
	}{
		"strict with loose Srvc2": {core.Strict, reflect.TypeFor[Srvc2](), core.Strict, core.Loose},
		"loose with strict Srvc2": {core.Loose, reflect.TypeFor[Srvc2](), core.Loose, core.Strict},
		"strict with loose Srvc1": {core.Strict, reflect.TypeFor[Srvc1](), core.Loose, core.Strict},
		"unused alternate":        {core.Strict, reflect.TypeFor[fmt.Stringer](), core.Strict, core.Strict},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			fixture, err := core.Build[*TestObject](t, []any{NewTestObject},
				core.WithMode(tc.mode), core.WithAlternate(tc.alternate))
			g.Expect(err).NotTo(HaveOccurred())

			g.Expect(core.MockOf[Srvc1](fixture).Mode()).To(Equal(tc.srvc1))
			g.Expect(core.MockOf[Srvc2](fixture).Mode()).To(Equal(tc.srvc2))
		})
	}
}

// TestBuild_AlternateFor_MatchesWithAlternate verifies the type-parameter form.
func TestBuild_AlternateFor_MatchesWithAlternate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](t, []any{NewTestObject},
		core.WithMode(core.Strict), core.WithAlternateFor[Srvc2]())
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(core.MockOf[Srvc1](fixture).Mode()).To(Equal(core.Strict))
	g.Expect(core.MockOf[Srvc2](fixture).Mode()).To(Equal(core.Loose))
}

// TestBuild_ModeAssignment_Property verifies every mock gets the default mode unless its type is alternate.
func TestBuild_ModeAssignment_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		pool := paramPool()
		mode := rapid.SampledFrom([]core.Mode{core.Loose, core.Strict}).Draw(rt, "mode")

		alternate := make(map[reflect.Type]bool)
		alternateTypes := []reflect.Type{reflect.TypeFor[fmt.Stringer]()}

		for i, typ := range pool {
			if rapid.Bool().Draw(rt, fmt.Sprintf("alternate%d", i)) {
				alternate[typ] = true
				alternateTypes = append(alternateTypes, typ)
			}
		}

		fixture, err := core.Build[int](&fakeReporter{}, []any{makeConstructor(0, pool)},
			core.WithMode(mode), core.WithAlternate(alternateTypes...))
		if err != nil {
			rt.Fatalf("Build failed: %v", err)
		}

		params := fixture.Parameters()
		if len(params) != len(pool) {
			rt.Fatalf("expected %d parameters, got %d", len(pool), len(params))
		}

		for _, param := range params {
			want := mode
			if alternate[param.Type] {
				want = mode.Inverse()
			}

			if got := param.Mock.Mode(); got != want {
				rt.Fatalf("parameter %d (%v): expected %v, got %v", param.Index, param.Type, want, got)
			}
		}
	})
}

// TestBuild_SelectsConstructorWithMostParameters_Property verifies selection, first one on ties.
func TestBuild_SelectsConstructorWithMostParameters_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		pool := paramPool()
		arities := rapid.SliceOfN(rapid.IntRange(0, len(pool)), 1, 6).Draw(rt, "arities")

		ctors := make([]any, len(arities))
		want := 0

		for i, arity := range arities {
			ctors[i] = makeConstructor(i, pool[:arity])

			if arity > arities[want] {
				want = i
			}
		}

		fixture, err := core.Build[int](&fakeReporter{}, ctors)
		if err != nil {
			rt.Fatalf("Build failed: %v", err)
		}

		if got := fixture.Target(); got != want {
			rt.Fatalf("expected constructor %d, got %d", want, got)
		}

		if got := fixture.Constructor().NumIn(); got != arities[want] {
			rt.Fatalf("expected %d parameters, got %d", arities[want], got)
		}
	})
}

// TestBuild_PrefersRicherConstructor verifies a concrete pair of constructors.
func TestBuild_PrefersRicherConstructor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](t, []any{NewTestObjectWithDefaultSrvc2, NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(fixture.Constructor()).To(Equal(reflect.TypeOf(NewTestObject)))
	g.Expect(fixture.Target().b).NotTo(BeNil())
}

// TestBuild_TiesGoToFirstConstructor verifies ties keep the earlier constructor.
func TestBuild_TiesGoToFirstConstructor(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	first := func(Srvc1) string { return "first" }
	second := func(Srvc2) string { return "second" }

	fixture, err := core.Build[string](t, []any{first, second})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fixture.Target()).To(Equal("first"))

	fixture, err = core.Build[string](t, []any{second, first})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(fixture.Target()).To(Equal("second"))
}

// TestMockOf_ReturnsSameInstance verifies repeated lookups share one mock.
func TestMockOf_ReturnsSameInstance(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](t, []any{NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(core.MockOf[Srvc1](fixture)).To(BeIdenticalTo(core.MockOf[Srvc1](fixture)))
}

// TestMockOf_UnknownTypeIsReported verifies lookups of types the constructor does not take.
func TestMockOf_UnknownTypeIsReported(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}

	fixture, err := core.Build[*TestObject](reporter, []any{NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	_, err = core.LookupMock[Notifier](fixture)
	g.Expect(err).To(MatchError(core.ErrNoMatchingMock))

	g.Expect(core.MockOf[Notifier](fixture)).To(BeNil())
	g.Expect(reporter.Failures()).To(ContainElement(ContainSubstring(core.ErrNoMatchingMock.Error())))
}

// TestBuild_SetupsReachTheTarget verifies setups and verification through the built target.
func TestBuild_SetupsReachTheTarget(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}

	fixture, err := core.Build[*TestObject](reporter, []any{NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	core.MockOf[Srvc1](fixture).On("MethodWithStringParameter", "foo").Verifiable()
	core.MockOf[Srvc2](fixture).On("FunctionWithStringParameter", HaveLen(3)).Return("ignored")

	target := fixture.Target()
	target.MethodWithStringParameter("foo")
	g.Expect(target.FunctionWithStringParameter("bar")).To(Equal("bar"))

	fixture.Verify()
	fixture.VerifyAll()

	g.Expect(reporter.Failures()).To(BeEmpty())
	g.Expect(core.MockOf[Srvc1](fixture).VerifyCall(core.Once(), "MethodWithStringParameter", "foo")).To(Succeed())
}

// TestBuild_Strict_UnconfiguredCallPanics verifies strict fixtures reject calls nothing configured.
func TestBuild_Strict_UnconfiguredCallPanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](&fakeReporter{}, []any{NewTestObject}, core.WithMode(core.Strict))
	g.Expect(err).NotTo(HaveOccurred())

	core.MockOf[Srvc1](fixture).On("MethodWithStringParameter", HaveLen(3))

	target := fixture.Target()

	g.Expect(func() { target.MethodWithStringParameter("foo") }).NotTo(Panic())
	g.Expect(target.Method).To(PanicWith(MatchError(core.ErrUnexpectedCall)))
}

// TestFixture_Verify_ReportsUnmetExpectations verifies Verify and VerifyAll report failures.
func TestFixture_Verify_ReportsUnmetExpectations(t *testing.T) {
	t.Parallel()

	t.Run("Verify ignores setups not marked verifiable", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		reporter := &fakeReporter{}

		fixture, err := core.Build[*TestObject](reporter, []any{NewTestObject})
		g.Expect(err).NotTo(HaveOccurred())

		core.MockOf[Srvc2](fixture).On("Function").Return("x")
		fixture.Verify()

		g.Expect(reporter.Failures()).To(BeEmpty())
	})

	t.Run("Verify reports uncalled verifiable setups", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		reporter := &fakeReporter{}

		fixture, err := core.Build[*TestObject](reporter, []any{NewTestObject})
		g.Expect(err).NotTo(HaveOccurred())

		core.MockOf[Srvc1](fixture).On("Method").Verifiable()
		fixture.Verify()

		g.Expect(reporter.Failures()).To(HaveLen(1))
		g.Expect(reporter.Failures()[0]).To(ContainSubstring(core.ErrVerification.Error()))
	})

	t.Run("VerifyAll reports every unmet setup of every mock", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		reporter := &fakeReporter{}

		fixture, err := core.Build[*TestObject](reporter, []any{NewTestObject})
		g.Expect(err).NotTo(HaveOccurred())

		core.MockOf[Srvc1](fixture).On("Method")
		core.MockOf[Srvc2](fixture).On("Function").Return("x")
		fixture.VerifyAll()

		g.Expect(reporter.Failures()).To(HaveLen(1))
		g.Expect(reporter.Failures()[0]).To(And(
			ContainSubstring("core_test.Srvc1"),
			ContainSubstring("core_test.Srvc2"),
		))
	})
}

// TestFixture_Target_BuildsFreshInstances verifies each Target call constructs again over shared mocks.
func TestFixture_Target_BuildsFreshInstances(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fixture, err := core.Build[*TestObject](t, []any{NewTestObject})
	g.Expect(err).NotTo(HaveOccurred())

	first := fixture.Target()
	second := fixture.Target()

	g.Expect(first).NotTo(BeIdenticalTo(second))
	g.Expect(first.a).To(BeIdenticalTo(second.a))

	core.MockOf[Srvc2](fixture).On("Function").Return("late")
	g.Expect(first.b.Function()).To(Equal("late"))
}

// TestFixture_TargetE_ReturnsConstructorError verifies constructors returning errors.
func TestFixture_TargetE_ReturnsConstructorError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	errBoom := errors.New("boom")
	ctor := func(Srvc1) (*TestObject, error) { return nil, errBoom }

	reporter := &fakeReporter{}

	fixture, err := core.Build[*TestObject](reporter, []any{ctor})
	g.Expect(err).NotTo(HaveOccurred())

	_, err = fixture.TargetE()
	g.Expect(err).To(MatchError(errBoom))

	g.Expect(fixture.Target()).To(BeNil())
	g.Expect(reporter.Failures()).To(ContainElement(ContainSubstring("boom")))
}

// TestFixture_TargetE_SucceedsWithNilError verifies (T, error) constructors that succeed.
func TestFixture_TargetE_SucceedsWithNilError(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ctor := func(a Srvc1) (*TestObject, error) { return &TestObject{a: a}, nil }

	fixture, err := core.Build[*TestObject](t, []any{ctor})
	g.Expect(err).NotTo(HaveOccurred())

	target, err := fixture.TargetE()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(target.a).To(BeIdenticalTo(core.MockOf[Srvc1](fixture).Object()))
}

// TestBuild_InvalidConstructorsAreRejected verifies constructor validation.
func TestBuild_InvalidConstructorsAreRejected(t *testing.T) {
	t.Parallel()

	var nilCtor func(Srvc1) *TestObject

	cases := map[string]struct {
		ctors []any
		err   error
	}{
		"none":           {nil, core.ErrNoConstructor},
		"not a function": {[]any{"NewTestObject"}, core.ErrInvalidConstructor},
		"nil function":   {[]any{nilCtor}, core.ErrInvalidConstructor},
		"variadic":       {[]any{func(...Srvc1) *TestObject { return nil }}, core.ErrInvalidConstructor},
		"wrong result":   {[]any{func(Srvc1) int { return 0 }}, core.ErrInvalidConstructor},
		"no result":      {[]any{func(Srvc1) {}}, core.ErrInvalidConstructor},
		"second not error": {
			[]any{func(Srvc1) (*TestObject, bool) { return nil, false }},
			core.ErrInvalidConstructor,
		},
		"one bad among good": {[]any{NewTestObject, 42}, core.ErrInvalidConstructor},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			fixture, err := core.Build[*TestObject](t, tc.ctors)
			g.Expect(err).To(MatchError(tc.err))
			g.Expect(fixture).To(BeNil())
		})
	}
}

// TestBuild_UnregisteredInterfaceParameterIsRejected verifies interface parameters need a factory.
func TestBuild_UnregisteredInterfaceParameterIsRejected(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ctor := func(Unregistered) *TestObject { return &TestObject{} }

	_, err := core.Build[*TestObject](t, []any{ctor})
	g.Expect(err).To(MatchError(core.ErrUnmockableType))
	g.Expect(err.Error()).To(ContainSubstring("WithFactory"))
}

// TestBuild_WithFactory_MocksUnregisteredInterfaces verifies per-fixture factories.
func TestBuild_WithFactory_MocksUnregisteredInterfaces(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var got Unregistered

	ctor := func(u Unregistered) *TestObject {
		got = u

		return &TestObject{}
	}

	fixture, err := core.Build[*TestObject](t, []any{ctor},
		core.WithMode(core.Strict),
		core.WithFactory(func(m *core.Mock[Unregistered]) Unregistered { return &unregisteredMock{mock: m} }),
	)
	g.Expect(err).NotTo(HaveOccurred())

	core.MockOf[Unregistered](fixture).On("Do").Verifiable()
	fixture.Target()
	got.Do()
	fixture.Verify()
}

// TestBuild_WithValueFor_PassesRealImplementation verifies interface parameters can take real values.
func TestBuild_WithValueFor_PassesRealImplementation(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	impl := &unregisteredMock{}
	ctor := func(u Unregistered, a Srvc1) *TestObject {
		g.Expect(u).To(BeIdenticalTo(impl))

		return &TestObject{a: a}
	}

	fixture, err := core.Build[*TestObject](t, []any{ctor}, core.WithValueFor[Unregistered](impl))
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(fixture.Target().a).NotTo(BeNil())
	g.Expect(fixture.Parameters()[0].Mock).To(BeNil())
	g.Expect(fixture.Parameters()[1].Mock).NotTo(BeNil())
}

// TestBuild_PlainParameters_GetZeroOrGivenValues verifies non-mockable parameters.
func TestBuild_PlainParameters_GetZeroOrGivenValues(t *testing.T) {
	t.Parallel()

	ctor := func(name string, count int, a Srvc1) string {
		return fmt.Sprintf("%q/%d/%v", name, count, a != nil)
	}

	t.Run("zero values", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		fixture, err := core.Build[string](t, []any{ctor})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(fixture.Target()).To(Equal(`""/0/true`))

		params := fixture.Parameters()
		g.Expect(params).To(HaveLen(3))
		g.Expect(params[0].Mock).To(BeNil())
		g.Expect(params[1].Mock).To(BeNil())
		g.Expect(params[2].Mock).NotTo(BeNil())
		g.Expect(params[2].Index).To(Equal(2))
		g.Expect(params[2].Type).To(Equal(reflect.TypeFor[Srvc1]()))
	})

	t.Run("given values", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		fixture, err := core.Build[string](t, []any{ctor}, core.WithValue("svc"), core.WithValue(3))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(fixture.Target()).To(Equal(`"svc"/3/true`))
	})

	t.Run("nil value", func(t *testing.T) {
		t.Parallel()
		g := NewWithT(t)

		_, err := core.Build[string](t, []any{ctor}, core.WithValue(nil))
		g.Expect(err).To(MatchError(core.ErrBadSetup))
	})
}

// TestBuild_FunctionParameters_AreMocked verifies function-typed dependencies.
func TestBuild_FunctionParameters_AreMocked(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	type fetcher struct {
		fetch func(string) (int, error)
	}

	ctor := func(fetch func(string) (int, error)) *fetcher { return &fetcher{fetch: fetch} }

	fixture, err := core.Build[*fetcher](t, []any{ctor}, core.WithMode(core.Strict))
	g.Expect(err).NotTo(HaveOccurred())

	core.MockOf[func(string) (int, error)](fixture).OnCall("a").Return(1, nil)

	value, err := fixture.Target().fetch("a")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(value).To(Equal(1))
}

// TestBuild_DuplicateParameterTypes_GetOneMockEach verifies positional selection of same-typed mocks.
func TestBuild_DuplicateParameterTypes_GetOneMockEach(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reporter := &fakeReporter{}
	ctor := func(a, b Srvc1) *TestObject { return &TestObject{a: a, b: nil} }
	pair := func(a, b Srvc1) [2]Srvc1 { return [2]Srvc1{a, b} }

	fixture, err := core.Build[*TestObject](reporter, []any{ctor})
	g.Expect(err).NotTo(HaveOccurred())

	_, err = core.LookupMock[Srvc1](fixture)
	g.Expect(err).To(MatchError(core.ErrAmbiguousMock))

	first := core.MockAt[Srvc1](fixture, 0)
	second := core.MockAt[Srvc1](fixture, 1)
	g.Expect(first).NotTo(BeIdenticalTo(second))
	g.Expect(core.MockAt[Srvc1](fixture, 0)).To(BeIdenticalTo(first))
	g.Expect(fixture.Target().a).To(BeIdenticalTo(first.Object()))

	pairs, err := core.Build[[2]Srvc1](t, []any{pair})
	g.Expect(err).NotTo(HaveOccurred())

	objects := pairs.Target()
	g.Expect(objects[0]).To(BeIdenticalTo(core.MockAt[Srvc1](pairs, 0).Object()))
	g.Expect(objects[1]).To(BeIdenticalTo(core.MockAt[Srvc1](pairs, 1).Object()))
	g.Expect(objects[0]).NotTo(BeIdenticalTo(objects[1]))

	g.Expect(core.MockAt[Srvc1](fixture, 2)).To(BeNil())
	g.Expect(reporter.Failures()).To(ContainElement(ContainSubstring(core.ErrNoMatchingMock.Error())))
}

// TestBuild_WithDefaultValue_AppliesToEveryMock verifies the fixture-wide default value policy.
func TestBuild_WithDefaultValue_AppliesToEveryMock(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	ctor := func(r Repo, a Srvc1) *TestObject { return &TestObject{a: a, b: r.Service()} }

	fixture, err := core.Build[*TestObject](t, []any{ctor}, core.WithDefaultValue(core.DefaultMock))
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(core.MockOf[Srvc1](fixture).DefaultValue()).To(Equal(core.DefaultMock))
	g.Expect(fixture.Target().b).NotTo(BeNil())
}

type unregisteredMock struct {
	mock *core.Mock[Unregistered]
}

func (m *unregisteredMock) Do() {
	if m.mock != nil {
		m.mock.Called("Do")
	}
}

// paramPool returns mockable parameter types for generated constructors.
func paramPool() []reflect.Type {
	return []reflect.Type{
		reflect.TypeFor[func()](),
		reflect.TypeFor[func() int](),
		reflect.TypeFor[func(string)](),
		reflect.TypeFor[func(int) error](),
		reflect.TypeFor[Srvc1](),
		reflect.TypeFor[Srvc2](),
	}
}

// makeConstructor builds a constructor taking params and returning id.
func makeConstructor(id int, params []reflect.Type) any {
	typ := reflect.FuncOf(params, []reflect.Type{reflect.TypeFor[int]()}, false)

	return reflect.MakeFunc(typ, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.ValueOf(id)}
	}).Interface()
}
