//go:build !ignore_autogenerated
// +build !ignore_autogenerated

/*
Copyright 2017 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Code generated by hand in the style of k8s.io/code-generator's
// deepcopy-gen, mirroring k8s.io/sample-controller's generated output
// convention for a single-kind API group.

package v1

import (
	corev1 "k8s.io/api/core/v1"
	runtime "k8s.io/apimachinery/pkg/runtime"
)

// DeepCopyInto copies all properties into the receiver.
func (in *RTResource) DeepCopyInto(out *RTResource) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ObjectMeta.DeepCopyInto(&out.ObjectMeta)
	in.Spec.DeepCopyInto(&out.Spec)
	in.Status.DeepCopyInto(&out.Status)
}

// DeepCopy creates a deep copy of RTResource.
func (in *RTResource) DeepCopy() *RTResource {
	if in == nil {
		return nil
	}
	out := new(RTResource)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *RTResource) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}

// DeepCopyInto copies all properties into the receiver.
func (in *RTResourceSpec) DeepCopyInto(out *RTResourceSpec) {
	*out = *in
	if in.Selector != nil {
		out.Selector = in.Selector.DeepCopy()
	}
	in.Template.DeepCopyInto(&out.Template)
}

// DeepCopy creates a deep copy of RTResourceSpec.
func (in *RTResourceSpec) DeepCopy() *RTResourceSpec {
	if in == nil {
		return nil
	}
	out := new(RTResourceSpec)
	in.DeepCopyInto(out)
	return out
}

// DeepCopy creates a deep copy of Selector.
func (in *Selector) DeepCopy() *Selector {
	if in == nil {
		return nil
	}
	out := new(Selector)
	if in.MatchLabels != nil {
		out.MatchLabels = make(map[string]string, len(in.MatchLabels))
		for k, v := range in.MatchLabels {
			out.MatchLabels[k] = v
		}
	}
	if in.MatchExpressions != nil {
		out.MatchExpressions = make([]MatchExpression, len(in.MatchExpressions))
		for i := range in.MatchExpressions {
			in.MatchExpressions[i].DeepCopyInto(&out.MatchExpressions[i])
		}
	}
	return out
}

// DeepCopyInto copies all properties into the receiver.
func (in *MatchExpression) DeepCopyInto(out *MatchExpression) {
	*out = *in
	if in.Values != nil {
		out.Values = make([]string, len(in.Values))
		copy(out.Values, in.Values)
	}
}

// DeepCopyInto copies all properties into the receiver.
func (in *Template) DeepCopyInto(out *Template) {
	*out = *in
	if in.Metadata != nil {
		out.Metadata = in.Metadata.DeepCopy()
	}
	if in.Spec != nil {
		out.Spec = new(corev1.PodSpec)
		in.Spec.DeepCopyInto(out.Spec)
	}
}

// DeepCopyInto copies all properties into the receiver.
func (in *RTResourceStatus) DeepCopyInto(out *RTResourceStatus) {
	*out = *in
	if in.Conditions != nil {
		out.Conditions = make([]Condition, len(in.Conditions))
		for i := range in.Conditions {
			in.Conditions[i].DeepCopyInto(&out.Conditions[i])
		}
	}
}

// DeepCopy creates a deep copy of RTResourceStatus.
func (in *RTResourceStatus) DeepCopy() *RTResourceStatus {
	if in == nil {
		return nil
	}
	out := new(RTResourceStatus)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyInto copies all properties into the receiver.
func (in *Condition) DeepCopyInto(out *Condition) {
	*out = *in
	in.LastTransitionTime.DeepCopyInto(&out.LastTransitionTime)
}

// DeepCopyInto copies all properties into the receiver.
func (in *RTResourceList) DeepCopyInto(out *RTResourceList) {
	*out = *in
	out.TypeMeta = in.TypeMeta
	in.ListMeta.DeepCopyInto(&out.ListMeta)
	if in.Items != nil {
		out.Items = make([]RTResource, len(in.Items))
		for i := range in.Items {
			in.Items[i].DeepCopyInto(&out.Items[i])
		}
	}
}

// DeepCopy creates a deep copy of RTResourceList.
func (in *RTResourceList) DeepCopy() *RTResourceList {
	if in == nil {
		return nil
	}
	out := new(RTResourceList)
	in.DeepCopyInto(out)
	return out
}

// DeepCopyObject implements runtime.Object.
func (in *RTResourceList) DeepCopyObject() runtime.Object {
	if c := in.DeepCopy(); c != nil {
		return c
	}
	return nil
}
