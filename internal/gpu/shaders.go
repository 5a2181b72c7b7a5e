package gpu

import "fmt"

// WGSL compute shaders.
//
// U8 images travel as packed u32 words in storage buffers (WGSL has no
// byte-addressable storage). Every shader runs a 1D grid over output
// words: each invocation assembles one u32, four output bytes, which
// keeps writes word-exclusive without atomics.
//
// Arithmetic mirrors the CPU kernels in internal/imgproc step for
// step. The convolution accumulates f32 in the same ky-then-kx order
// and rounds with the same +0.5 truncation; threshold compares with
// strict greater-than; morphology skips out-of-bounds samples instead
// of clamping. Divergence here is a parity bug, not a tolerance issue.

// shaderCommon is spliced into every shader: the packed-byte loader
// over the shared src binding.
const shaderCommon = `
fn load_u8(i: u32) -> u32 {
    return (src[i >> 2u] >> ((i & 3u) * 8u)) & 0xffu;
}
`

const thresholdShaderTmpl = `
struct Params {
    out_bytes: u32,
    thresh: u32,
    maxval: u32,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
%s
@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let word = gid.x;
    if (word * 4u >= params.out_bytes) {
        return;
    }
    var out: u32 = 0u;
    for (var k = 0u; k < 4u; k = k + 1u) {
        let b = word * 4u + k;
        if (b < params.out_bytes) {
            let v = load_u8(b);
            let r = %s;
            out = out | ((r & 0xffu) << (k * 8u));
        }
    }
    dst[word] = out;
}
`

// thresholdShader bakes the per-pixel rule into the source. The rule
// changes the shader text, so it is part of the pipeline key; thresh
// and maxval are uniforms and are not.
func thresholdShader(rule string) string {
	var expr string
	switch rule {
	case "binary":
		expr = "select(0u, params.maxval, v > params.thresh)"
	case "binary_inv":
		expr = "select(params.maxval, 0u, v > params.thresh)"
	case "trunc":
		expr = "select(v, params.thresh, v > params.thresh)"
	case "tozero":
		expr = "select(0u, v, v > params.thresh)"
	default: // tozero_inv
		expr = "select(v, 0u, v > params.thresh)"
	}
	return fmt.Sprintf(thresholdShaderTmpl, shaderCommon, expr)
}

// convolveShaderTmpl is a direct 2D convolution with replicated
// borders. One pipeline serves every kernel: the weights arrive in a
// storage buffer and the extents in uniforms, so box and Gaussian
// blurs of any size share the cached pipeline.
const convolveShaderTmpl = `
struct Params {
    width: u32,
    height: u32,
    channels: u32,
    out_bytes: u32,
    kw: u32,
    kh: u32,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
@group(0) @binding(3) var<storage, read> weights: array<f32>;
%s
fn convolve_byte(b: u32) -> u32 {
    let ch = b %% params.channels;
    let p = b / params.channels;
    let x = i32(p %% params.width);
    let y = i32(p / params.width);
    let hw = i32(params.kw / 2u);
    let hh = i32(params.kh / 2u);
    let maxx = i32(params.width) - 1;
    let maxy = i32(params.height) - 1;

    var acc: f32 = 0.0;
    for (var ky = 0u; ky < params.kh; ky = ky + 1u) {
        let sy = clamp(y + i32(ky) - hh, 0, maxy);
        for (var kx = 0u; kx < params.kw; kx = kx + 1u) {
            let sx = clamp(x + i32(kx) - hw, 0, maxx);
            let si = (u32(sy) * params.width + u32(sx)) * params.channels + ch;
            acc = acc + weights[ky * params.kw + kx] * f32(load_u8(si));
        }
    }
    return u32(clamp(acc + 0.5, 0.0, 255.0));
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let word = gid.x;
    if (word * 4u >= params.out_bytes) {
        return;
    }
    var out: u32 = 0u;
    for (var k = 0u; k < 4u; k = k + 1u) {
        let b = word * 4u + k;
        if (b < params.out_bytes) {
            out = out | ((convolve_byte(b) & 0xffu) << (k * 8u));
        }
    }
    dst[word] = out;
}
`

func convolveShader() string {
	return fmt.Sprintf(convolveShaderTmpl, shaderCommon)
}

// morphShaderTmpl is erode/dilate with the kernel extents baked into
// the source as constants. Changing the structuring element size
// produces a different shader and therefore a different pipeline key;
// the element mask itself is a storage buffer.
//
// Samples outside the image are skipped, not clamped: border pixels
// reduce over a truncated element, matching the CPU path.
const morphShaderTmpl = `
struct Params {
    width: u32,
    height: u32,
    channels: u32,
    out_bytes: u32,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
@group(0) @binding(3) var<storage, read> mask: array<u32>;
%s
const KW: i32 = %d;
const KH: i32 = %d;

fn morph_byte(b: u32) -> u32 {
    let ch = b %% params.channels;
    let p = b / params.channels;
    let x = i32(p %% params.width);
    let y = i32(p / params.width);

    var best: u32 = %su;
    for (var ky = 0; ky < KH; ky = ky + 1) {
        let sy = y + ky - KH / 2;
        if (sy < 0 || sy >= i32(params.height)) {
            continue;
        }
        for (var kx = 0; kx < KW; kx = kx + 1) {
            if (mask[u32(ky * KW + kx)] == 0u) {
                continue;
            }
            let sx = x + kx - KW / 2;
            if (sx < 0 || sx >= i32(params.width)) {
                continue;
            }
            let si = (u32(sy) * params.width + u32(sx)) * params.channels + ch;
            best = %s(best, load_u8(si));
        }
    }
    return best;
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let word = gid.x;
    if (word * 4u >= params.out_bytes) {
        return;
    }
    var out: u32 = 0u;
    for (var k = 0u; k < 4u; k = k + 1u) {
        let b = word * 4u + k;
        if (b < params.out_bytes) {
            out = out | ((morph_byte(b) & 0xffu) << (k * 8u));
        }
    }
    dst[word] = out;
}
`

func morphShader(erode bool, kw, kh int) string {
	init, reduce := "0", "max"
	if erode {
		init, reduce = "255", "min"
	}
	return fmt.Sprintf(morphShaderTmpl, shaderCommon, kw, kh, init, reduce)
}

// grayShaderTmpl converts interleaved RGB(A) to a single gray channel
// with the BT.601 weights and a truncated f32 dot product. The source
// channel count and R/B swap are baked in; both change the indexing
// code, so they live in the pipeline key.
const grayShaderTmpl = `
struct Params {
    out_bytes: u32,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
%s
const SRC_CH: u32 = %du;

fn gray_byte(p: u32) -> u32 {
    let base = p * SRC_CH;
    let r = f32(load_u8(base + %du));
    let g = f32(load_u8(base + 1u));
    let b = f32(load_u8(base + %du));
    return u32(0.299 * r + 0.587 * g + 0.114 * b);
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let word = gid.x;
    if (word * 4u >= params.out_bytes) {
        return;
    }
    var out: u32 = 0u;
    for (var k = 0u; k < 4u; k = k + 1u) {
        let b = word * 4u + k;
        if (b < params.out_bytes) {
            out = out | ((gray_byte(b) & 0xffu) << (k * 8u));
        }
    }
    dst[word] = out;
}
`

func grayShader(srcChannels int, swapRB bool) string {
	rOff, bOff := 0, 2
	if swapRB {
		rOff, bOff = 2, 0
	}
	return fmt.Sprintf(grayShaderTmpl, shaderCommon, srcChannels, rOff, bOff)
}

// resizeShaderTmpl scales with either nearest or bilinear sampling.
// The sampling mode changes the shader body and is part of the key;
// source and target extents are uniforms.
const resizeShaderTmpl = `
struct Params {
    src_width: u32,
    src_height: u32,
    channels: u32,
    out_bytes: u32,
    dst_width: u32,
    dst_height: u32,
}

@group(0) @binding(0) var<storage, read> src: array<u32>;
@group(0) @binding(1) var<storage, read_write> dst: array<u32>;
@group(0) @binding(2) var<uniform> params: Params;
%s
fn src_at(x: u32, y: u32, ch: u32) -> u32 {
    return load_u8((y * params.src_width + x) * params.channels + ch);
}

fn resize_byte(b: u32) -> u32 {
    let ch = b %% params.channels;
    let p = b / params.channels;
    let x = p %% params.dst_width;
    let y = p / params.dst_width;
%s
}

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    let word = gid.x;
    if (word * 4u >= params.out_bytes) {
        return;
    }
    var out: u32 = 0u;
    for (var k = 0u; k < 4u; k = k + 1u) {
        let b = word * 4u + k;
        if (b < params.out_bytes) {
            out = out | ((resize_byte(b) & 0xffu) << (k * 8u));
        }
    }
    dst[word] = out;
}
`

const resizeNearestBody = `
    let xr = f32(params.src_width) / f32(params.dst_width);
    let yr = f32(params.src_height) / f32(params.dst_height);
    let sx = min(u32(f32(x) * xr), params.src_width - 1u);
    let sy = min(u32(f32(y) * yr), params.src_height - 1u);
    return src_at(sx, sy, ch);`

const resizeBilinearBody = `
    let xr = f32(params.src_width - 1u) / f32(params.dst_width);
    let yr = f32(params.src_height - 1u) / f32(params.dst_height);
    let fx = f32(x) * xr;
    let fy = f32(y) * yr;
    let x1 = u32(fx);
    let y1 = u32(fy);
    let x2 = min(x1 + 1u, params.src_width - 1u);
    let y2 = min(y1 + 1u, params.src_height - 1u);
    let dx = fx - f32(x1);
    let dy = fy - f32(y1);
    let top = f32(src_at(x1, y1, ch)) * (1.0 - dx) + f32(src_at(x2, y1, ch)) * dx;
    let bot = f32(src_at(x1, y2, ch)) * (1.0 - dx) + f32(src_at(x2, y2, ch)) * dx;
    let v = top * (1.0 - dy) + bot * dy;
    return u32(clamp(round(v), 0.0, 255.0));`

func resizeShader(bilinear bool) string {
	body := resizeNearestBody
	if bilinear {
		body = resizeBilinearBody
	}
	return fmt.Sprintf(resizeShaderTmpl, shaderCommon, body)
}
