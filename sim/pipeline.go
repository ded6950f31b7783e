package sim

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/glowfield/glowfield/gpu"
	"github.com/glowfield/glowfield/shaders"
)

// computeWorkgroupSize matches @workgroup_size in the compute kernel.
const computeWorkgroupSize = 64

// verticesPerParticle is the size of the corner table in the vertex kernel:
// two triangles covering one billboard quad.
const verticesPerParticle = 6

// pipelines bundles everything the frame scheduler dispatches: the physics
// compute pipeline, the billboard render pipeline, the shared parameter
// buffer and the four bind-group permutations of the ping-pong scheme.
//
// computeBind[g] reads generation g and writes the other one; renderBind[g]
// reads the generation that computeBind[g] just wrote. All of it is
// immutable for the lifetime of a particle count.
type pipelines struct {
	compute *wgpu.ComputePipeline
	render  *wgpu.RenderPipeline

	paramsBuffer *wgpu.Buffer

	computeBind [2]*wgpu.BindGroup
	renderBind  [2]*wgpu.BindGroup
}

// buildPipelines compiles the shader module once and derives both pipelines
// and their bind groups from it. Any device validation failure is fatal for
// the session and is returned with the underlying message.
func buildPipelines(ctx *gpu.Context, store *particleStore) (*pipelines, error) {
	if gpu.AlignedSize(paramsByteSize) != paramsByteSize {
		return nil, fmt.Errorf("sim: parameter block size %d is not %d-byte aligned", paramsByteSize, gpu.UniformAlign)
	}

	shader, err := ctx.Device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "particles",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesWGSL},
	})
	if err != nil {
		return nil, fmt.Errorf("sim: compile particle shader: %w", err)
	}
	defer shader.Release()

	p := &pipelines{}

	p.compute, err = ctx.Device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label: "Particle Physics",
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     shader,
			EntryPoint: "cs_main",
		},
	})
	if err != nil {
		p.release()
		return nil, fmt.Errorf("sim: create compute pipeline: %w", err)
	}

	p.render, err = ctx.Device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Particle Billboards",
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format: ctx.Config.Format,
				// Additive: overlapping glow quads accumulate instead of
				// occluding each other.
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
					Alpha: wgpu.BlendComponent{
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOne,
						Operation: wgpu.BlendOperationAdd,
					},
				},
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.release()
		return nil, fmt.Errorf("sim: create render pipeline: %w", err)
	}

	p.paramsBuffer, err = gpu.NewUniformBuffer(ctx.Device, "Sim Params", make([]byte, paramsByteSize))
	if err != nil {
		p.release()
		return nil, err
	}

	if err := p.buildBindGroups(ctx.Device, store); err != nil {
		p.release()
		return nil, err
	}
	return p, nil
}

// buildBindGroups creates both ping-pong permutations for the compute pass
// and both read variants for the render pass.
func (p *pipelines) buildBindGroups(device *wgpu.Device, store *particleStore) error {
	computeLayout := p.compute.GetBindGroupLayout(0)
	defer computeLayout.Release()
	renderLayout := p.render.GetBindGroupLayout(0)
	defer renderLayout.Release()

	for _, g := range []generation{generationA, generationB} {
		src := store.buffers[g.current()]
		dst := store.buffers[g.nextIndex()]

		computeGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Compute %s", g),
			Layout: computeLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: p.paramsBuffer, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: src, Size: wgpu.WholeSize},
				{Binding: 2, Buffer: dst, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			return fmt.Errorf("sim: create compute bind group %s: %w", g, err)
		}
		p.computeBind[g.current()] = computeGroup

		// The render pass reads the generation compute just finished
		// writing, never the one it is about to overwrite.
		renderGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  fmt.Sprintf("Render %s", g),
			Layout: renderLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: p.paramsBuffer, Size: wgpu.WholeSize},
				{Binding: 1, Buffer: dst, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			return fmt.Errorf("sim: create render bind group %s: %w", g, err)
		}
		p.renderBind[g.current()] = renderGroup
	}
	return nil
}

func (p *pipelines) release() {
	for i, bg := range p.renderBind {
		if bg != nil {
			bg.Release()
			p.renderBind[i] = nil
		}
	}
	for i, bg := range p.computeBind {
		if bg != nil {
			bg.Release()
			p.computeBind[i] = nil
		}
	}
	if p.paramsBuffer != nil {
		p.paramsBuffer.Release()
		p.paramsBuffer = nil
	}
	if p.render != nil {
		p.render.Release()
		p.render = nil
	}
	if p.compute != nil {
		p.compute.Release()
		p.compute = nil
	}
}

// dispatchSize returns the workgroup count covering count particles.
func dispatchSize(count int) uint32 {
	return uint32((count + computeWorkgroupSize - 1) / computeWorkgroupSize)
}
