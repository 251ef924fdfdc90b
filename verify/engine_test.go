/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

package verify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ololoshechkin/plugin-verifier/classfile"
	"github.com/Ololoshechkin/plugin-verifier/problem"
	"github.com/Ololoshechkin/plugin-verifier/resolver"
)

// TestEngineOverrideFinalScenario mirrors spec.md §8 end-to-end scenario
// 1: a plugin class overrides a public final non-abstract host method.
func TestEngineOverrideFinalScenario(t *testing.T) {
	ctx := context.Background()
	host := resolver.NewMapResolver("host", &classfile.ClassNode{
		Name: "p/A",
		Methods: []*classfile.MethodNode{
			{Name: "m", Desc: "()V", Access: classfile.AccPublic | classfile.AccFinal},
		},
	})
	plugin := resolver.NewMapResolver("plugin", &classfile.ClassNode{
		Name: "q/B", Super: "p/A",
		Methods: []*classfile.MethodNode{
			{Name: "m", Desc: "()V", Access: classfile.AccPublic},
		},
	})
	classpath := resolver.NewUnionResolver(plugin, host)
	registrar := problem.NewRegistrar()
	job := NewJob(classpath, []string{"q/B"}, nil, registrar, false)

	result := job.Run(ctx)
	require.Equal(t, Completed, result.Outcome)
	assertContainsKind(t, result.Problems, problem.OverridingFinalMethod)
}

// TestEngineInvokeVirtualOnStaticScenario mirrors spec.md §8 scenario 2.
func TestEngineInvokeVirtualOnStaticScenario(t *testing.T) {
	ctx := context.Background()
	host := resolver.NewMapResolver("host", &classfile.ClassNode{
		Name: "p/S",
		Methods: []*classfile.MethodNode{
			{Name: "s", Desc: "()V", Access: classfile.AccPublic | classfile.AccStatic},
		},
	})
	plugin := resolver.NewMapResolver("plugin", &classfile.ClassNode{
		Name: "q/P",
		Methods: []*classfile.MethodNode{
			{Name: "run", Desc: "()V", Instructions: []classfile.Instruction{
				{Index: 0, Opcode: classfile.InvokeVirtual, Owner: "p/S", Name: "s", Desc: "()V"},
			}},
		},
	})
	classpath := resolver.NewUnionResolver(plugin, host)
	registrar := problem.NewRegistrar()
	job := NewJob(classpath, []string{"q/P"}, nil, registrar, false)

	result := job.Run(ctx)
	assertContainsKind(t, result.Problems, problem.InvokeVirtualOnStaticMethod)
}

// TestEnginePackageNotFoundScenario mirrors spec.md §8 scenario 3:
// enough missing classes under one prefix collapse into one rollup.
func TestEnginePackageNotFoundScenario(t *testing.T) {
	ctx := context.Background()
	instructions := make([]classfile.Instruction, 0, 15)
	for i := 0; i < 15; i++ {
		instructions = append(instructions, classfile.Instruction{
			Index: i, Opcode: classfile.New, TypeName: ("removed/pkg/Class" + string(rune('A'+i))),
		})
	}
	plugin := resolver.NewMapResolver("plugin", &classfile.ClassNode{
		Name: "q/P",
		Methods: []*classfile.MethodNode{
			{Name: "run", Desc: "()V", Instructions: instructions},
		},
	})
	registrar := problem.NewRegistrar()
	job := NewJob(plugin, []string{"q/P"}, nil, registrar, false)

	result := job.Run(ctx)
	var rollups int
	for _, p := range result.Problems {
		if p.Kind == problem.PackageNotFound {
			rollups++
			assert.Len(t, p.Children, 15)
		}
	}
	assert.Equal(t, 1, rollups)
}

// TestEngineExternalPackageSuppressesErrors mirrors spec.md §8 scenario 6.
func TestEngineExternalPackageSuppressesErrors(t *testing.T) {
	ctx := context.Background()
	plugin := resolver.NewMapResolver("plugin", &classfile.ClassNode{
		Name: "q/P",
		Methods: []*classfile.MethodNode{
			{Name: "run", Desc: "()V", Instructions: []classfile.Instruction{
				{Index: 0, Opcode: classfile.New, TypeName: "org/unknown/X"},
				{Index: 1, Opcode: classfile.New, TypeName: "com/absent/Y"},
			}},
		},
	})
	external := resolver.NewExternalFilter("org/unknown/")
	registrar := problem.NewRegistrar()
	job := NewJob(plugin, []string{"q/P"}, external, registrar, false)

	result := job.Run(ctx)
	var classNotFoundCount int
	for _, p := range result.Problems {
		if p.Kind == problem.ClassNotFound {
			classNotFoundCount++
			assert.Equal(t, "com/absent/Y", p.References[0].ClassName)
		}
	}
	assert.Equal(t, 1, classNotFoundCount)
}

func TestEngineRunRespectsCancellation(t *testing.T) {
	plugin := resolver.NewMapResolver("plugin", &classfile.ClassNode{Name: "q/P"})
	registrar := problem.NewRegistrar()
	job := NewJob(plugin, []string{"q/P"}, nil, registrar, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := job.Run(ctx)
	assert.Equal(t, Cancelled, result.Outcome)
}
