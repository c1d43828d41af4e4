package webgpu

// WGSL compute shaders for feature Lp pooling.
// Tensors are dense row-major in canonical [batch, feature, extra1, extra2]
// order, so extra1*extra2 is the distance between consecutive features.

// paramsStruct is the uniform shared by both shaders.
const paramsStruct = `
struct Params {
    batch: u32,
    feat_in: u32,
    feat_out: u32,
    extra1: u32,
    extra2: u32,
    width: u32,
    stride: u32,
    size: u32,
    power: f32,
}
`

// powAbsFn returns |v|^p with 0 for v == 0, where WGSL pow is undefined.
const powAbsFn = `
fn pow_abs(v: f32, p: f32) -> f32 {
    let a = abs(v);
    if (a == 0.0) {
        return 0.0;
    }
    if (p == 1.0) {
        return a;
    }
    return pow(a, p);
}
`

// featureLPPoolForwardShader computes one output element per invocation:
// output[b, y, e] = (sum_k |input[b, y*stride+k, e]|^p)^(1/p).
const featureLPPoolForwardShader = paramsStruct + powAbsFn + `
@group(0) @binding(0) var<storage, read> input: array<f32>;
@group(0) @binding(1) var<storage, read_write> output: array<f32>;
@group(0) @binding(2) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.size) {
        return;
    }

    let inner = params.extra1 * params.extra2;
    let e = idx % inner;
    let y = (idx / inner) % params.feat_out;
    let b = idx / (inner * params.feat_out);
    let base = b * params.feat_in * inner + e;

    var acc: f32 = 0.0;
    for (var k: u32 = 0u; k < params.width; k = k + 1u) {
        acc = acc + pow_abs(input[base + (y * params.stride + k) * inner], params.power);
    }

    if (acc == 0.0) {
        output[idx] = 0.0;
    } else {
        output[idx] = pow(acc, 1.0 / params.power);
    }
}
`

// featureLPPoolBackwardShader computes one input gradient element per
// invocation by gathering from the windows that cover it.
const featureLPPoolBackwardShader = paramsStruct + powAbsFn + `
@group(0) @binding(0) var<storage, read> grad_output: array<f32>;
@group(0) @binding(1) var<storage, read> input: array<f32>;
@group(0) @binding(2) var<storage, read> output: array<f32>;
@group(0) @binding(3) var<storage, read_write> grad_input: array<f32>;
@group(0) @binding(4) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>) {
    let idx = global_id.x;
    if (idx >= params.size) {
        return;
    }

    let v = input[idx];
    if (v == 0.0) {
        grad_input[idx] = 0.0;
        return;
    }

    let inner = params.extra1 * params.extra2;
    let e = idx % inner;
    let x = (idx / inner) % params.feat_in;
    let b = idx / (inner * params.feat_in);

    var first: u32 = 0u;
    if (x >= params.width) {
        first = (x - params.width + params.stride) / params.stride;
    }
    let last = min(x / params.stride + 1u, params.feat_out);

    var sum: f32 = 0.0;
    for (var y: u32 = first; y < last; y = y + 1u) {
        let o_idx = (b * params.feat_out + y) * inner + e;
        let o = output[o_idx];
        if (o == 0.0) {
            continue;
        }
        if (params.power == 1.0) {
            sum = sum + grad_output[o_idx];
        } else {
            sum = sum + grad_output[o_idx] * pow(o, 1.0 - params.power);
        }
    }

    grad_input[idx] = sum * sign(v) * pow_abs(v, params.power - 1.0);
}
`
