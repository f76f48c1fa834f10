// Package reconcile implements the reconciliation action (C5): given an
// RTResource identity, fetch it, compute the replica delta, create/delete
// pods, update status conditions, and garbage-collect orphan pods when the
// resource has been deleted. Grounded on
// original_source/controller/src/components/watchdog.rs's async block and
// scheduling.rs's pod construction; the pod-diff idiom follows the
// desired/actual map pattern in other_examples' gasboat reconciler.go.
package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"time"

	set "github.com/deckarep/golang-set"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/record"
	"k8s.io/klog/v2"

	rtv1 "rtcritical/rtresource-controller/pkg/apis/rtgroup/v1"
	rtclient "rtcritical/rtresource-controller/pkg/client"

	"rtcritical/rtresource-controller/internal/queue"
)

// Event reasons recorded against the RTResource, in the teacher's
// controller.go style (SuccessSynced / ErrResourceExists constants).
const (
	ReasonPodCreated    = "PodCreated"
	ReasonPodCreateFail = "PodCreateFailed"
	ReasonPodDeleted    = "PodDeleted"
	ReasonPodDeleteFail = "PodDeleteFailed"
)

// requiredPodLabels is the label set spec.md §6 mandates on every managed
// pod, independent of what scheduling.rs's Rust revision actually wrote.
var requiredPodLabels = set.NewSetFromSlice([]interface{}{
	"rtresource_id", "rtresource_name", "rtresource_uid", "rtresource_namespace", "criticality",
})

// Action is C5.
type Action struct {
	RTResources rtclient.Interface
	Pods        kubernetes.Interface
	Scheduler   Scheduler
	// Recorder emits Kubernetes Events against the RTResource, the same
	// record.EventRecorder the teacher wires via record.NewBroadcaster in
	// controller.go's NewController. Optional; nil is a silent no-op.
	Recorder record.EventRecorder
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (a *Action) event(rt *rtv1.RTResource, eventtype, reason, message string) {
	if a.Recorder == nil || rt == nil {
		return
	}
	a.Recorder.Event(rt, eventtype, reason, message)
}

func (a *Action) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Reconcile is the entry point C6 invokes synchronously for one dequeued
// event (spec.md §4.5).
func (a *Action) Reconcile(ctx context.Context, msg queue.Message) error {
	rt, err := a.RTResources.RTResources(msg.Namespace).Get(ctx, msg.Name, metav1.GetOptions{})
	if apierrors.IsNotFound(err) {
		return a.reconcileDeleted(ctx, msg)
	}
	if err != nil {
		klog.ErrorS(err, "reconcile: fetch failed, next event will retry", "name", msg.Name, "namespace", msg.Namespace)
		return nil
	}
	return a.reconcileExists(ctx, rt)
}

func (a *Action) reconcileExists(ctx context.Context, rt *rtv1.RTResource) error {
	now := metav1.NewTime(a.now())
	rt.Status.ObservedGeneration = rt.Generation
	rt.Status.DesiredReplicas = rt.Spec.Replicas
	rt.Status.SetCondition(rtv1.ConditionProgressing, rtv1.ConditionTrue, "SpecChanged", "RTResource spec changed", now)
	rt.Status.SetCondition(rtv1.ConditionReady, rtv1.ConditionFalse, "SpecChanged", "RTResource spec changed", now)

	if _, err := a.RTResources.RTResources(rt.Namespace).UpdateStatus(ctx, rt, metav1.UpdateOptions{}); err != nil {
		klog.ErrorS(err, "reconcile: status update failed", "name", rt.Name)
	}

	selector := "rtresource_id=" + string(rt.UID)
	pods, err := a.Pods.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		klog.ErrorS(err, "reconcile: pod list failed, next event will retry", "name", rt.Name)
		return nil
	}

	have := len(pods.Items)
	want := int(rt.Spec.Replicas)

	switch {
	case want > have:
		a.createPods(ctx, rt, want-have)
	case want < have:
		a.deletePods(ctx, rt, pods.Items[:have-want])
	}
	return nil
}

func (a *Action) reconcileDeleted(ctx context.Context, msg queue.Message) error {
	selector := "rtresource_id=" + msg.UID
	pods, err := a.Pods.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		klog.ErrorS(err, "reconcile: orphan pod list failed, next event will retry", "uid", msg.UID)
		return nil
	}
	a.deletePods(ctx, nil, pods.Items)
	return nil
}

func (a *Action) createPods(ctx context.Context, rt *rtv1.RTResource, n int) {
	for i := 0; i < n; i++ {
		pod := a.buildPod(rt)
		if a.Scheduler != nil {
			pod = a.Scheduler(pod)
		}
		if _, err := a.Pods.CoreV1().Pods(pod.Namespace).Create(ctx, pod, metav1.CreateOptions{}); err != nil {
			klog.ErrorS(err, "reconcile: pod create failed, swallowed", "pod", pod.Name)
			a.event(rt, corev1.EventTypeWarning, ReasonPodCreateFail, fmt.Sprintf("failed to create pod %q: %v", pod.Name, err))
			continue
		}
		a.event(rt, corev1.EventTypeNormal, ReasonPodCreated, fmt.Sprintf("created pod %q", pod.Name))
	}
}

func (a *Action) deletePods(ctx context.Context, rt *rtv1.RTResource, pods []corev1.Pod) {
	for _, pod := range pods {
		if err := a.Pods.CoreV1().Pods(pod.Namespace).Delete(ctx, pod.Name, metav1.DeleteOptions{}); err != nil {
			klog.ErrorS(err, "reconcile: pod delete failed, swallowed", "pod", pod.Name)
			a.event(rt, corev1.EventTypeWarning, ReasonPodDeleteFail, fmt.Sprintf("failed to delete pod %q: %v", pod.Name, err))
			continue
		}
		a.event(rt, corev1.EventTypeNormal, ReasonPodDeleted, fmt.Sprintf("deleted pod %q", pod.Name))
	}
}

// buildPod constructs a managed pod per spec.md §4.5.d / §6: name is
// `<rtresource.name>-<unix_millis>`, labels are the union of the template
// labels, the selector's match labels, and the five required management
// labels, annotations come from the template, and the pod spec is the
// template's spec verbatim (node placement is applied by the scheduler
// afterwards).
func (a *Action) buildPod(rt *rtv1.RTResource) *corev1.Pod {
	labels := map[string]string{}
	if rt.Spec.Template.Metadata != nil {
		for k, v := range rt.Spec.Template.Metadata.Labels {
			labels[k] = v
		}
	}
	if rt.Spec.Selector != nil {
		for k, v := range rt.Spec.Selector.MatchLabels {
			labels[k] = v
		}
	}
	labels["rtresource_id"] = string(rt.UID)
	labels["rtresource_name"] = rt.Name
	labels["rtresource_uid"] = string(rt.UID)
	labels["rtresource_namespace"] = rt.Namespace
	labels["criticality"] = strconv.FormatUint(uint64(rt.Spec.Criticality), 10)

	present := set.NewSetFromSlice(keysOf(labels))
	if !requiredPodLabels.IsSubset(present) {
		klog.InfoS("reconcile: managed pod labels missing required keys", "pod", rt.Name, "missing", requiredPodLabels.Difference(present))
	}

	var annotations map[string]string
	if rt.Spec.Template.Metadata != nil {
		annotations = rt.Spec.Template.Metadata.Annotations
	}

	var podSpec corev1.PodSpec
	if rt.Spec.Template.Spec != nil {
		podSpec = *rt.Spec.Template.Spec.DeepCopy()
	}

	return &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{
			Name:        fmt.Sprintf("%s-%d", rt.Name, a.now().UnixMilli()),
			Namespace:   rt.Spec.Namespace,
			Labels:      labels,
			Annotations: annotations,
		},
		Spec: podSpec,
	}
}

func keysOf(m map[string]string) []interface{} {
	out := make([]interface{}, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
