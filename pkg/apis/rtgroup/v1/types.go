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

// Package v1 contains the RTResource custom resource: group
// rtgroup.critical.com, version v1, kind RTResource.
package v1

import (
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// RTResource describes a priority-critical workload: a desired replica
// count, a criticality band, and the pod template used to realize it.
type RTResource struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   RTResourceSpec   `json:"spec"`
	Status RTResourceStatus `json:"status,omitempty"`
}

// RTResourceSpec is the desired state of an RTResource.
type RTResourceSpec struct {
	// Namespace is where the managed pods are deployed.
	Namespace string `json:"namespace"`
	// Replicas is the desired pod count. Required; the source disagreed on
	// this across revisions, this implementation takes it as required with
	// no default.
	Replicas int32 `json:"replicas"`
	// Criticality is the priority band: 0 is most critical, larger values
	// are less critical.
	Criticality uint32 `json:"criticality"`
	// Selector identifies the pods that belong to this resource.
	Selector *Selector `json:"selector,omitempty"`
	// Template is the pod template used to create managed pods.
	Template Template `json:"template"`
}

// Template is the pod template embedded in an RTResource.
type Template struct {
	Metadata *metav1.ObjectMeta `json:"metadata,omitempty"`
	Spec     *corev1.PodSpec    `json:"spec,omitempty"`
}

// MatchExpression is a label selector requirement.
type MatchExpression struct {
	Key      string   `json:"key"`
	Operator string   `json:"operator"`
	Values   []string `json:"values,omitempty"`
}

// Selector identifies the pods that belong to an RTResource.
type Selector struct {
	MatchLabels      map[string]string `json:"matchLabels,omitempty"`
	MatchExpressions []MatchExpression `json:"matchExpressions,omitempty"`
}

// Condition type names used by the engine.
const (
	ConditionProgressing = "Progressing"
	ConditionReady       = "Ready"
)

// Condition status values.
const (
	ConditionTrue    = "True"
	ConditionFalse   = "False"
	ConditionUnknown = "Unknown"
)

// Condition is a single RTResourceStatus condition entry.
type Condition struct {
	Type               string      `json:"type"`
	Status             string      `json:"status"`
	LastTransitionTime metav1.Time `json:"lastTransitionTime,omitempty"`
	Reason             string      `json:"reason,omitempty"`
	Message            string      `json:"message,omitempty"`
}

// RTResourceStatus is the observed state of an RTResource.
type RTResourceStatus struct {
	ObservedGeneration int64       `json:"observedGeneration,omitempty"`
	DesiredReplicas    int32       `json:"desiredReplicas,omitempty"`
	Replicas           int32       `json:"replicas,omitempty"`
	Conditions         []Condition `json:"conditions,omitempty"`
}

// +k8s:deepcopy-gen:interfaces=k8s.io/apimachinery/pkg/runtime.Object

// RTResourceList is a list of RTResources.
type RTResourceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`

	Items []RTResource `json:"items"`
}

// GetCondition returns a pointer to the named condition, or nil if absent.
func (s *RTResourceStatus) GetCondition(condType string) *Condition {
	for i := range s.Conditions {
		if s.Conditions[i].Type == condType {
			return &s.Conditions[i]
		}
	}
	return nil
}

// SetCondition upserts a condition by type, bumping LastTransitionTime only
// when the status actually changes (matching the status-condition-upsert
// idiom used across the pack's controller-runtime reconcilers).
func (s *RTResourceStatus) SetCondition(condType, status, reason, message string, now metav1.Time) {
	if existing := s.GetCondition(condType); existing != nil {
		if existing.Status != status {
			existing.LastTransitionTime = now
		}
		existing.Status = status
		existing.Reason = reason
		existing.Message = message
		return
	}
	s.Conditions = append(s.Conditions, Condition{
		Type:               condType,
		Status:             status,
		LastTransitionTime: now,
		Reason:             reason,
		Message:            message,
	})
}
