package watchers

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/informers"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"
	"k8s.io/klog/v2"

	"rtcritical/rtresource-controller/internal/queue"
)

// PodWatcher is C4: watches pods cluster-wide and, on deletion of a
// managed pod, re-emits the owning RTResource's identity at band =
// the pod's criticality label so C5 can reconverge replica count.
type PodWatcher struct {
	KubeClient kubernetes.Interface
	Queue      *queue.Queue
}

// Run blocks, feeding C1 until ctx is cancelled.
func (w *PodWatcher) Run(ctx context.Context) {
	factory := informers.NewSharedInformerFactory(w.KubeClient, resyncPeriod)
	podInformer := factory.Core().V1().Pods().Informer()

	_, err := podInformer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		DeleteFunc: func(obj interface{}) { w.handleDelete(obj) },
	})
	if err != nil {
		klog.ErrorS(err, "pod watcher: failed to add event handler")
		return
	}

	factory.Start(ctx.Done())
	podInformer.Run(ctx.Done())
}

func (w *PodWatcher) handleDelete(obj interface{}) {
	pod, ok := obj.(*corev1.Pod)
	if !ok {
		tombstone, ok := obj.(cache.DeletedFinalStateUnknown)
		if !ok {
			klog.ErrorS(nil, "pod watcher: unexpected object type")
			return
		}
		pod, ok = tombstone.Obj.(*corev1.Pod)
		if !ok {
			klog.ErrorS(nil, "pod watcher: tombstone contained unexpected type")
			return
		}
	}

	name, okName := pod.Labels["rtresource_name"]
	uid, okUID := pod.Labels["rtresource_uid"]
	namespace, okNS := pod.Labels["rtresource_namespace"]
	criticalityStr, okCrit := pod.Labels["criticality"]
	if !okName || !okUID || !okNS || !okCrit {
		// Not managed by this controller; drop silently (spec.md §4.4).
		return
	}

	criticality, err := strconv.ParseUint(criticalityStr, 10, 32)
	if err != nil {
		klog.InfoS("pod watcher: unparsable criticality label, dropping event", "pod", pod.Name, "criticality", criticalityStr)
		return
	}

	msg := queue.Message{Name: name, UID: uid, Namespace: namespace, CorrelationID: uuid.NewString()}
	if err := w.Queue.Send(msg, uint32(criticality)); err != nil {
		klog.ErrorS(err, "pod watcher: send failed, dropping event", "pod", pod.Name, "correlationID", msg.CorrelationID)
	}
}
