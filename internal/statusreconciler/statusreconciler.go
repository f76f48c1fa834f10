// Package statusreconciler implements the status reconciler (C8): an
// independent loop that recomputes .status.replicas from the observed
// running pod count and flips Progressing/Ready once the resource has
// converged. Grounded on
// original_source/controller/src/components/resource_state_updater.rs;
// the condition-upsert call mirrors the idiom in other_examples'
// flyingrobots workerpool_controller.go.
package statusreconciler

import (
	"context"
	"sort"
	"sync"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"

	rtv1 "rtcritical/rtresource-controller/pkg/apis/rtgroup/v1"
	rtclient "rtcritical/rtresource-controller/pkg/client"
)

// maxConsecutiveFailures is the fatal-degraded threshold from spec.md
// §4.9: "on 10 consecutive list failures, exit".
const maxConsecutiveFailures = 10

// defaultInterval is the "~1s" pacing spec.md §4.9 recommends between
// passes (the source loop itself is tight and has no sleep).
const defaultInterval = time.Second

const convergedMessage = "All desired replicas are running!"

// Reconciler is C8.
type Reconciler struct {
	RTResources rtclient.Interface
	Pods        kubernetes.Interface

	// Workers runs this many independent passes concurrently (see
	// SPEC_FULL.md §11: the prototype ran five; spec.md's "independent
	// loop" description is preserved by making every instance identical
	// and idempotent). Defaults to 1.
	Workers int
	// Interval paces passes; defaults to defaultInterval.
	Interval time.Duration
	// Now is overridable for tests.
	Now func() time.Time
}

func (r *Reconciler) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Reconciler) interval() time.Duration {
	if r.Interval > 0 {
		return r.Interval
	}
	return defaultInterval
}

func (r *Reconciler) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return 1
}

// Run blocks, driving Workers() independent passes until ctx is cancelled
// or every instance hits fatal-degraded.
func (r *Reconciler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < r.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.loop(ctx)
		}()
	}
	wg.Wait()
}

func (r *Reconciler) loop(ctx context.Context) {
	consecutiveFailures := 0
	for {
		if ctx.Err() != nil {
			return
		}

		if err := r.pass(ctx); err != nil {
			consecutiveFailures++
			klog.ErrorS(err, "status reconciler: pass failed", "consecutiveFailures", consecutiveFailures)
			if consecutiveFailures >= maxConsecutiveFailures {
				klog.InfoS("status reconciler: fatal-degraded, exiting; restart required")
				return
			}
		} else {
			consecutiveFailures = 0
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.interval()):
		}
	}
}

func (r *Reconciler) pass(ctx context.Context) error {
	list, err := r.RTResources.RTResources(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return err
	}

	items := list.Items
	sort.Slice(items, func(i, j int) bool { return items[i].Spec.Criticality < items[j].Spec.Criticality })

	for i := range items {
		rt := &items[i]
		progressing := rt.Status.GetCondition(rtv1.ConditionProgressing)
		if progressing == nil || progressing.Status != rtv1.ConditionTrue {
			continue
		}
		r.reconcileOne(ctx, rt)
	}
	return nil
}

func (r *Reconciler) reconcileOne(ctx context.Context, rt *rtv1.RTResource) {
	selector := "rtresource_id=" + string(rt.UID)
	pods, err := r.Pods.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		klog.ErrorS(err, "status reconciler: pod list failed for resource", "name", rt.Name)
		return
	}

	running := 0
	for _, pod := range pods.Items {
		if pod.Status.Phase == "Running" {
			running++
		}
	}

	rt.Status.Replicas = int32(running)
	if int32(running) == rt.Status.DesiredReplicas {
		now := metav1.NewTime(r.now())
		rt.Status.SetCondition(rtv1.ConditionProgressing, rtv1.ConditionFalse, "Converged", convergedMessage, now)
		rt.Status.SetCondition(rtv1.ConditionReady, rtv1.ConditionTrue, "Converged", convergedMessage, now)
	}

	if _, err := r.RTResources.RTResources(rt.Namespace).UpdateStatus(ctx, rt, metav1.UpdateOptions{}); err != nil {
		klog.ErrorS(err, "status reconciler: status update failed", "name", rt.Name)
	}
}
