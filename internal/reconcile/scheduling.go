package reconcile

import (
	"math/rand"

	corev1 "k8s.io/api/core/v1"
)

// candidateNodes is the static node set original_source's scheduler.rs
// picks from uniformly at random.
var candidateNodes = []string{"orionw1", "orionw2", "orionw3", "orionw4"}

// Scheduler is the pluggable node-placement contract of spec.md §4.8: a
// pure function `schedule(pod) -> pod'`.
type Scheduler func(pod *corev1.Pod) *corev1.Pod

// RandomScheduler is the stub scheduler: pick a node name from
// candidateNodes uniformly at random and write it into spec.nodeName.
func RandomScheduler(pod *corev1.Pod) *corev1.Pod {
	pod.Spec.NodeName = candidateNodes[rand.Intn(len(candidateNodes))]
	return pod
}
