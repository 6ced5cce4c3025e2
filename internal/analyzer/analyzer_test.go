package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rcierrors "github.com/standardbeagle/rci/internal/errors"
	"github.com/standardbeagle/rci/internal/types"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func analyzeSource(t *testing.T, name, content string) *types.AnalysisResult {
	t.Helper()
	path := writeSource(t, t.TempDir(), name, content)
	result, err := New(Options{}).AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	return result
}

func TestCyclomaticComplexityIsBranchesPlusOne(t *testing.T) {
	// 1 if + 1 while + 1 for + 1 do + 2 cases + 1 ternary = 7 branches.
	result := analyzeSource(t, "branches.ts", `
function f(x: number) {
  if (x) {}
  while (x) {}
  for (let i = 0; i < x; i++) {}
  do {} while (x);
  switch (x) {
    case 1: break;
    case 2: break;
  }
  const y = x ? 1 : 2;
}
`)
	assert.Equal(t, 8, result.Complexity.CyclomaticComplexity)
}

func TestComponentClassificationRequiresCapitalizedName(t *testing.T) {
	lower := analyzeSource(t, "app.tsx", `
function app() {
  return <div>hi</div>;
}
`)
	assert.Empty(t, lower.Components)
	require.Len(t, lower.Functions, 1)
	assert.Equal(t, "app", lower.Functions[0].Name)

	upper := analyzeSource(t, "App.tsx", `
function App() {
  return <div>hi</div>;
}
`)
	require.Len(t, upper.Components, 1)
	assert.Equal(t, "App", upper.Components[0].Name)
	assert.Equal(t, types.ComponentKindFunction, upper.Components[0].Kind)
	assert.Empty(t, upper.Functions)
}

func TestArrowComponentWithExpressionBody(t *testing.T) {
	result := analyzeSource(t, "Button.tsx", `
const Button = (props: ButtonProps) => <button>{props.label}</button>;
`)
	require.Len(t, result.Components, 1)
	assert.Equal(t, "Button", result.Components[0].Name)
	assert.Equal(t, types.ComponentKindArrow, result.Components[0].Kind)
	assert.Equal(t, "ButtonProps", result.Components[0].Props)
}

func TestComponentHooksStateAndEffects(t *testing.T) {
	result := analyzeSource(t, "Counter.tsx", `
import React, { useState, useEffect } from 'react';

function Counter() {
  const [count, setCount] = useState(0);
  const [label, setLabel] = useState('');
  useEffect(() => { document.title = label; }, [label]);
  useEffect(() => {}, []);
  useState(1);
  return <span>{count}</span>;
}
`)
	require.Len(t, result.Components, 1)
	c := result.Components[0]
	assert.Equal(t, []string{"useState", "useEffect"}, c.Hooks)
	assert.Equal(t, []string{"count", "label"}, c.StateVariables)
	assert.Equal(t, []string{"useEffect", "useEffect"}, c.Effects)
}

func TestClassComponentStateFromConstructor(t *testing.T) {
	result := analyzeSource(t, "Panel.tsx", `
import React from 'react';

class Panel extends React.Component {
  constructor(props) {
    super(props);
    this.state = { open: false, items: [] };
  }
  render() {
    return <div />;
  }
}
`)
	require.Len(t, result.Components, 1)
	c := result.Components[0]
	assert.Equal(t, types.ComponentKindClass, c.Kind)
	assert.Equal(t, []string{"open", "items"}, c.StateVariables)
	assert.Empty(t, c.Hooks)
	assert.Empty(t, c.Effects)

	// Methods are never components themselves; both stay FunctionInfo records.
	methods := map[string]bool{}
	for _, fn := range result.Functions {
		assert.Equal(t, types.FunctionKindMethod, fn.Kind)
		methods[fn.Name] = true
	}
	assert.True(t, methods["constructor"])
	assert.True(t, methods["render"])
}

func TestFunctionExtraction(t *testing.T) {
	result := analyzeSource(t, "util.ts", `
async function fetchData(url: string, retries: number = 3): Promise<Data> {
  const res = await fetch(url);
  return parse(res);
}

const sum = (a: number, b?: number) => a + (b ?? 0);

function* gen() { yield 1; }
`)
	require.Len(t, result.Functions, 3)
	byName := map[string]types.FunctionInfo{}
	for _, fn := range result.Functions {
		byName[fn.Name] = fn
	}

	fetchData := byName["fetchData"]
	assert.True(t, fetchData.Async)
	assert.Equal(t, "Promise<Data>", fetchData.ReturnType)
	require.Len(t, fetchData.Parameters, 2)
	assert.Equal(t, "url", fetchData.Parameters[0].Name)
	assert.Equal(t, "string", fetchData.Parameters[0].Type)
	assert.Equal(t, "3", fetchData.Parameters[1].DefaultValue)
	assert.ElementsMatch(t, []string{"fetch", "parse"}, fetchData.CallsTo)

	sum := byName["sum"]
	assert.Equal(t, types.FunctionKindArrow, sum.Kind)
	require.Len(t, sum.Parameters, 2)
	assert.True(t, sum.Parameters[1].Optional)

	assert.True(t, byName["gen"].Generator)
}

func TestModuleScopeConditionalHookViolations(t *testing.T) {
	result := analyzeSource(t, "bad.ts", `
declare const cond: boolean;
if (cond) {
  useState(0);
}
`)
	require.Len(t, result.Hooks, 1)
	hook := result.Hooks[0]
	assert.Equal(t, "useState", hook.Name)
	assert.Equal(t, types.UnknownComponent, hook.Component)
	assert.Contains(t, hook.Violations, ViolationConditionalHook)
	assert.Contains(t, hook.Violations, ViolationHookOutsideScope)
}

func TestHookInsideComponentHasNoViolations(t *testing.T) {
	result := analyzeSource(t, "Ok.tsx", `
function Ok() {
  const [v] = useState(0);
  return <div>{v}</div>;
}
`)
	require.Len(t, result.Hooks, 1)
	assert.Equal(t, "Ok", result.Hooks[0].Component)
	assert.Empty(t, result.Hooks[0].Violations)
}

func TestHookDependencyArray(t *testing.T) {
	result := analyzeSource(t, "Deps.tsx", `
function Deps({ a, b }: Props) {
  useEffect(() => { console.log(a, b); }, [a, b]);
  useMemo(() => a * 2, [a]);
  useCustom(a, [b]);
  return <div />;
}
`)
	byName := map[string][]string{}
	for _, h := range result.Hooks {
		byName[h.Name] = h.Dependencies
	}
	assert.Equal(t, []string{"a", "b"}, byName["useEffect"])
	assert.Equal(t, []string{"a"}, byName["useMemo"])
	// useCustom is not a dependency-array convention.
	assert.Empty(t, byName["useCustom"])
}

func TestImportsExportsAndDependencies(t *testing.T) {
	result := analyzeSource(t, "mod.ts", `
import React from 'react';
import { useState, useEffect } from 'react';
import * as path from 'node:path';
import './styles.css';

export const helper = () => 1;
export { useState as reexported };
export default helper;
`)
	require.Len(t, result.Imports, 4)
	kinds := map[string]types.ImportKind{}
	for _, imp := range result.Imports {
		kinds[string(imp.Kind)+":"+imp.Module] = imp.Kind
	}
	assert.Contains(t, kinds, "default:react")
	assert.Contains(t, kinds, "named:react")
	assert.Contains(t, kinds, "namespace:node:path")
	assert.Contains(t, kinds, "side-effect:./styles.css")

	exported := map[string]bool{}
	for _, exp := range result.Exports {
		exported[string(exp.Kind)+":"+exp.Name] = true
	}
	assert.True(t, exported["named:helper"])
	assert.True(t, exported["named:reexported"])
	assert.True(t, exported["default:helper"])

	require.Len(t, result.Dependencies, 4)
	assert.Equal(t, "mod.ts", result.Dependencies[0].From)
	assert.Equal(t, types.DependencyKindImport, result.Dependencies[0].Kind)
}

func TestInterfacesAndTypeAliases(t *testing.T) {
	result := analyzeSource(t, "types.ts", `
interface Base {
  id: string;
}

interface Props extends Base, Styled {
  title: string;
}

type Maybe<T> = T | null;
`)
	require.Len(t, result.Interfaces, 2)
	props := result.Interfaces[1]
	assert.Equal(t, "Props", props.Name)
	assert.Equal(t, []string{"Base", "Styled"}, props.Extends)
	assert.Contains(t, props.Members, "title")

	require.Len(t, result.Types, 1)
	assert.Equal(t, "Maybe", result.Types[0].Name)
	assert.Equal(t, "T | null", result.Types[0].Alias)
}

func TestScenarioPlainFunctionWithBranch(t *testing.T) {
	result := analyzeSource(t, "foo.tsx", `
declare const x: boolean;
function Foo() { if (x) { return 1; } return 2; }
`)
	assert.Empty(t, result.Components)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, "Foo", result.Functions[0].Name)
	assert.Equal(t, 2, result.Functions[0].Complexity)
}

func TestScenarioCustomHookFile(t *testing.T) {
	result := analyzeSource(t, "useCustom.ts", `
import { useState } from 'react';

const useCustom = () => {
  const [a, setA] = useState(0);
  return a;
};
`)
	assert.Empty(t, result.Components)

	require.Len(t, result.Hooks, 1)
	assert.Equal(t, "useState", result.Hooks[0].Name)
	assert.Equal(t, types.UnknownComponent, result.Hooks[0].Component)

	require.Len(t, result.Patterns, 1)
	p := result.Patterns[0]
	assert.Equal(t, types.PatternCustomHook, p.Type)
	assert.Equal(t, "useCustom", p.Name)
	assert.Equal(t, ConfidenceCustomHook, p.Confidence)
}

func TestCustomHookPatternRequiresFrameworkImport(t *testing.T) {
	result := analyzeSource(t, "useThing.ts", `
const useThing = () => 42;
`)
	assert.Empty(t, result.Patterns)
}

func TestHOCPattern(t *testing.T) {
	result := analyzeSource(t, "withAuth.tsx", `
import React from 'react';

function withAuth(Wrapped: React.FC): React.FC {
  return (props) => <Wrapped {...props} />;
}
`)
	var hoc *types.PatternInfo
	for i := range result.Patterns {
		if result.Patterns[i].Type == types.PatternHOC {
			hoc = &result.Patterns[i]
		}
	}
	require.NotNil(t, hoc)
	assert.Equal(t, "withAuth", hoc.Name)
	assert.Equal(t, ConfidenceHOC, hoc.Confidence)
}

func TestContextPatternUsesImportedNamespace(t *testing.T) {
	result := analyzeSource(t, "ctx.tsx", `
import * as R from 'react';

const ThemeContext = R.createContext('light');
`)
	require.Len(t, result.Patterns, 1)
	p := result.Patterns[0]
	assert.Equal(t, types.PatternReactContext, p.Type)
	assert.Equal(t, "ThemeContext", p.Name)
	assert.Equal(t, ConfidenceContext, p.Confidence)
}

func TestSingletonRequiresBothStaticMembers(t *testing.T) {
	partial := analyzeSource(t, "partial.ts", `
class Config {
  static instance: Config;
}
`)
	for _, p := range partial.Patterns {
		assert.NotEqual(t, types.PatternSingleton, p.Type)
	}

	full := analyzeSource(t, "full.ts", `
class Config {
  static instance: Config;
  static getInstance(): Config {
    if (!Config.instance) {
      Config.instance = new Config();
    }
    return Config.instance;
  }
}
`)
	singletons := []types.PatternInfo{}
	for _, p := range full.Patterns {
		if p.Type == types.PatternSingleton {
			singletons = append(singletons, p)
		}
	}
	require.Len(t, singletons, 1)
	assert.Equal(t, "Config", singletons[0].Name)
	assert.Equal(t, ConfidenceSingleton, singletons[0].Confidence)
}

func TestFactoryPatternNeedsMultipleReturns(t *testing.T) {
	single := analyzeSource(t, "single.ts", `
function shapeFactory(kind: string) {
  return new Circle();
}
`)
	for _, p := range single.Patterns {
		assert.NotEqual(t, types.PatternFactory, p.Type)
	}

	multi := analyzeSource(t, "multi.ts", `
function shapeFactory(kind: string) {
  if (kind === 'circle') { return new Circle(); }
  return new Square();
}
`)
	found := false
	for _, p := range multi.Patterns {
		if p.Type == types.PatternFactory {
			found = true
			assert.Equal(t, ConfidenceFactory, p.Confidence)
		}
	}
	assert.True(t, found)
}

func TestCacheReturnsSameResultUntilCleared(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "cached.ts", `export const x = 1;`)

	a := New(Options{})
	first, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	second, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, a.CacheSize())

	a.ClearCache()
	assert.Equal(t, 0, a.CacheSize())

	third, err := a.AnalyzeFile(context.Background(), path)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, first.ContentHash, third.ContentHash)
}

func TestInvalidateDropsOnePath(t *testing.T) {
	dir := t.TempDir()
	one := writeSource(t, dir, "one.ts", `export const a = 1;`)
	two := writeSource(t, dir, "two.ts", `export const b = 2;`)

	a := New(Options{})
	_, err := a.AnalyzeFile(context.Background(), one)
	require.NoError(t, err)
	_, err = a.AnalyzeFile(context.Background(), two)
	require.NoError(t, err)
	require.Equal(t, 2, a.CacheSize())

	a.Invalidate(one)
	assert.Equal(t, 1, a.CacheSize())
}

func TestAnalyzeDirectorySkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "good1.ts", `export const a = 1;`)
	writeSource(t, dir, "broken.ts", `function ( { if while`)
	writeSource(t, dir, "good2.tsx", `export const B = () => <div />;`)

	results, err := New(Options{}).AnalyzeDirectory(context.Background(), dir, nil)
	assert.Len(t, results, 2)

	var merr *rcierrors.MultiError
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 1)
	assert.Contains(t, merr.Errors[0].Error(), "broken.ts")
}

func TestAnalyzeDirectoryWithPatterns(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "keep.tsx", `export const A = () => <div />;`)
	writeSource(t, dir, "skip.ts", `export const b = 2;`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	writeSource(t, filepath.Join(dir, "nested"), "deep.tsx", `export const C = () => <p />;`)

	results, err := New(Options{}).AnalyzeDirectory(context.Background(), dir, []string{"**/*.tsx"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, ".tsx", filepath.Ext(r.FilePath))
	}
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, err := New(Options{}).AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.ts"))
	require.Error(t, err)
}

func TestLinesOfCodeAndNesting(t *testing.T) {
	result := analyzeSource(t, "nest.ts", `function f(a, b, c) {
  if (a) {
    if (b) {
      return c;
    }
  }
  return 0;
}
`)
	assert.Equal(t, 3, result.Complexity.ParameterCount)
	assert.Greater(t, result.Complexity.NestingDepth, 2)
	assert.Equal(t, 9, result.Complexity.LinesOfCode)
}
