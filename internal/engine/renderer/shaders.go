package renderer

import (
	"fmt"

	"github.com/Faultbox/flakesphere/internal/engine/lighting"
)

const vertexShader = `#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aUV;
layout (location = 3) in vec4 aTangent;

uniform mat4 uModel;
uniform mat3 uNormalMatrix;
uniform mat4 uView;
uniform mat4 uProjection;

out vec3 vWorldPos;
out vec3 vNormal;
out vec2 vUV;
out vec4 vTangent;

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vWorldPos = world.xyz;
	vNormal = normalize(uNormalMatrix * aNormal);
	vTangent = vec4(normalize(mat3(uModel) * aTangent.xyz), aTangent.w);
	vUV = aUV;
	gl_Position = uProjection * uView * world;
}
`

// fragmentShader is a metallic-roughness surface lit by a prefiltered
// environment, with a clear coat layer on the unperturbed normal, ACES
// filmic tone mapping and sRGB output.
var fragmentShader = fmt.Sprintf(`#version 410 core

#define MAX_POINT_LIGHTS %d

in vec3 vWorldPos;
in vec3 vNormal;
in vec2 vUV;
in vec4 vTangent;

out vec4 FragColor;

uniform vec3 uCameraPosition;

uniform vec3 uColor;
uniform float uMetalness;
uniform float uRoughness;
uniform float uClearcoat;
uniform float uClearcoatRoughness;

uniform bool uHasNormalMap;
uniform sampler2D uNormalMap;
uniform vec2 uNormalScale;
uniform vec2 uNormalRepeat;

uniform bool uHasEnvMap;
uniform samplerCube uEnvMap;
uniform float uEnvMaxLod;
uniform float uEnvIntensity;

uniform int uPointLightCount;
uniform vec3 uPointLightPosition[MAX_POINT_LIGHTS];
uniform vec3 uPointLightRadiance[MAX_POINT_LIGHTS];
uniform vec2 uPointLightFalloff[MAX_POINT_LIGHTS];

uniform float uExposure;

const float PI = 3.14159265359;

vec3 perturbNormal(vec3 n) {
	if (!uHasNormalMap) {
		return n;
	}
	vec3 t = normalize(vTangent.xyz - n * dot(n, vTangent.xyz));
	vec3 b = cross(n, t) * vTangent.w;
	vec3 m = texture(uNormalMap, vUV * uNormalRepeat).xyz * 2.0 - 1.0;
	m.xy *= uNormalScale;
	return normalize(mat3(t, b, n) * m);
}

// Karis' analytic fit of the split sum BRDF.
vec2 envBRDFApprox(float roughness, float nDotV) {
	const vec4 c0 = vec4(-1.0, -0.0275, -0.572, 0.022);
	const vec4 c1 = vec4(1.0, 0.0425, 1.04, -0.04);
	vec4 r = roughness * c0 + c1;
	float a004 = min(r.x * r.x, exp2(-9.28 * nDotV)) * r.x + r.y;
	return vec2(-1.04, 1.04) * a004 + r.zw;
}

vec3 envRadiance(vec3 dir, float roughness) {
	if (!uHasEnvMap) {
		return vec3(0.0);
	}
	return textureLod(uEnvMap, dir, roughness * uEnvMaxLod).rgb * uEnvIntensity;
}

vec3 envIrradiance(vec3 n) {
	if (!uHasEnvMap) {
		return vec3(0.0);
	}
	return textureLod(uEnvMap, n, uEnvMaxLod).rgb * uEnvIntensity;
}

float distributionGGX(float nDotH, float roughness) {
	float a = roughness * roughness;
	float a2 = a * a;
	float d = nDotH * nDotH * (a2 - 1.0) + 1.0;
	return a2 / (PI * d * d);
}

float geometrySmith(float nDotV, float nDotL, float roughness) {
	float k = (roughness + 1.0) * (roughness + 1.0) / 8.0;
	float gv = nDotV / (nDotV * (1.0 - k) + k);
	float gq = nDotL / (nDotL * (1.0 - k) + k);
	return gv * gq;
}

vec3 fresnelSchlick(vec3 f0, float cosTheta) {
	return f0 + (1.0 - f0) * pow(1.0 - cosTheta, 5.0);
}

float attenuation(float d, vec2 falloff) {
	if (falloff.x <= 0.0) {
		return 1.0;
	}
	return pow(clamp(1.0 - d / falloff.x, 0.0, 1.0), falloff.y);
}

vec3 pointLights(vec3 n, vec3 v, vec3 albedo, vec3 f0, float roughness) {
	vec3 lo = vec3(0.0);
	for (int i = 0; i < uPointLightCount; i++) {
		vec3 toLight = uPointLightPosition[i] - vWorldPos;
		float d = length(toLight);
		vec3 l = toLight / d;
		vec3 h = normalize(v + l);
		float nDotL = max(dot(n, l), 0.0);
		float nDotV = max(dot(n, v), 1e-4);
		if (nDotL <= 0.0) {
			continue;
		}
		vec3 radiance = uPointLightRadiance[i] * attenuation(d, uPointLightFalloff[i]);
		vec3 f = fresnelSchlick(f0, max(dot(h, v), 0.0));
		float ndf = distributionGGX(max(dot(n, h), 0.0), roughness);
		float g = geometrySmith(nDotV, nDotL, roughness);
		vec3 spec = ndf * g * f / (4.0 * nDotV * nDotL + 1e-4);
		vec3 kd = (vec3(1.0) - f) * (1.0 - uMetalness);
		lo += (kd * albedo / PI + spec) * radiance * nDotL;
	}
	return lo;
}

vec3 RRTAndODTFit(vec3 v) {
	vec3 a = v * (v + 0.0245786) - 0.000090537;
	vec3 b = v * (0.983729 * v + 0.4329510) + 0.238081;
	return a / b;
}

vec3 ACESFilmicToneMapping(vec3 color) {
	const mat3 ACESInputMat = mat3(
		vec3(0.59719, 0.07600, 0.02840),
		vec3(0.35458, 0.90834, 0.13383),
		vec3(0.04823, 0.01566, 0.83777)
	);
	const mat3 ACESOutputMat = mat3(
		vec3(1.60475, -0.10208, -0.00327),
		vec3(-0.53108, 1.10813, -0.07276),
		vec3(-0.07367, -0.00605, 1.07602)
	);
	color *= uExposure / 0.6;
	color = ACESInputMat * color;
	color = RRTAndODTFit(color);
	color = ACESOutputMat * color;
	return clamp(color, 0.0, 1.0);
}

vec3 linearToSRGB(vec3 c) {
	return mix(pow(c, vec3(0.41666)) * 1.055 - vec3(0.055), c * 12.92, vec3(lessThanEqual(c, vec3(0.0031308))));
}

void main() {
	vec3 geomNormal = normalize(vNormal);
	vec3 n = perturbNormal(geomNormal);
	vec3 v = normalize(uCameraPosition - vWorldPos);
	float nDotV = clamp(dot(n, v), 1e-4, 1.0);
	float roughness = clamp(uRoughness, 0.04, 1.0);

	vec3 albedo = uColor;
	vec3 f0 = mix(vec3(0.04), albedo, uMetalness);

	vec2 brdf = envBRDFApprox(roughness, nDotV);
	vec3 specular = envRadiance(reflect(-v, n), roughness) * (f0 * brdf.x + brdf.y);
	vec3 diffuse = envIrradiance(n) * albedo * (1.0 - uMetalness);
	vec3 color = diffuse + specular + pointLights(n, v, albedo, f0, roughness);

	if (uClearcoat > 0.0) {
		float ccRoughness = clamp(uClearcoatRoughness, 0.04, 1.0);
		float ccNDotV = clamp(dot(geomNormal, v), 1e-4, 1.0);
		vec3 fc = fresnelSchlick(vec3(0.04), ccNDotV);
		vec2 ccBRDF = envBRDFApprox(ccRoughness, ccNDotV);
		vec3 ccSpec = envRadiance(reflect(-v, geomNormal), ccRoughness) * (0.04 * ccBRDF.x + ccBRDF.y);
		color = color * (1.0 - uClearcoat * fc) + uClearcoat * ccSpec;
	}

	color = ACESFilmicToneMapping(color);
	FragColor = vec4(linearToSRGB(color), 1.0);
}
`, lighting.MaxPointLights)
