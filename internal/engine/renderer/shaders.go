package renderer

const vertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec2 aTexCoord;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform vec2 uRepeat;

out vec3 vNormal;
out vec2 vTexCoord;

void main() {
	vNormal = mat3(transpose(inverse(uModel))) * aNormal;
	vTexCoord = aTexCoord * uRepeat;
	gl_Position = uProjection * uView * uModel * vec4(aPos, 1.0);
}
`

const fragmentShader = `
#version 410 core

in vec3 vNormal;
in vec2 vTexCoord;

uniform sampler2D uMap;
uniform int uHasMap;
uniform vec4 uBaseColor;
uniform vec3 uAmbient;
uniform vec3 uLightDir;
uniform vec3 uLightColor;

out vec4 FragColor;

void main() {
	vec4 albedo = uBaseColor;
	if (uHasMap == 1) {
		albedo *= texture(uMap, vTexCoord);
	}

	float diffuse = 0.0;
	if (length(vNormal) > 0.0) {
		diffuse = max(dot(normalize(vNormal), uLightDir), 0.0);
	}
	vec3 light = uAmbient + uLightColor * diffuse;

	FragColor = vec4(albedo.rgb * light, albedo.a);
}
`
